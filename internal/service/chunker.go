package service

import (
	"strings"
	"unicode/utf8"

	"study_core_backend/internal/model"
)

// DefaultChunkRunes 单个切片的最大字符数
const DefaultChunkRunes = 1200

// SplitPages 按段落把每页文本装入不超过 maxRunes 的切片，切片不跨页
func SplitPages(pages []string, maxRunes int) []model.ContentChunk {
	if maxRunes <= 0 {
		maxRunes = DefaultChunkRunes
	}

	var chunks []model.ContentChunk
	emit := func(page int, text string) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		chunks = append(chunks, model.ContentChunk{
			ChunkIndex: len(chunks),
			PageNumber: page,
			Content:    text,
		})
	}

	for i, page := range pages {
		pageNumber := i + 1
		var buf strings.Builder
		for _, para := range splitParagraphs(page) {
			for _, piece := range splitRunes(para, maxRunes) {
				size := utf8.RuneCountInString(buf.String())
				if size > 0 && size+2+utf8.RuneCountInString(piece) > maxRunes {
					emit(pageNumber, buf.String())
					buf.Reset()
				}
				if buf.Len() > 0 {
					buf.WriteString("\n\n")
				}
				buf.WriteString(piece)
			}
		}
		emit(pageNumber, buf.String())
	}
	return chunks
}

func splitParagraphs(page string) []string {
	page = strings.ReplaceAll(page, "\r\n", "\n")
	raw := strings.Split(page, "\n\n")
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitRunes 超长段落按字符硬切
func splitRunes(s string, max int) []string {
	if utf8.RuneCountInString(s) <= max {
		return []string{s}
	}
	runes := []rune(s)
	out := make([]string, 0, len(runes)/max+1)
	for len(runes) > 0 {
		n := max
		if n > len(runes) {
			n = len(runes)
		}
		out = append(out, string(runes[:n]))
		runes = runes[n:]
	}
	return out
}
