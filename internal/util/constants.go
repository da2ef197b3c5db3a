package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 来源文档允许的类型
const (
	MimePDF         = "application/pdf"
	MimeText        = "text/plain"
	MimeMarkdown    = "text/markdown"
	MimeOctetStream = "application/octet-stream"
)

var AllowedSourceExtensions = []string{".pdf", ".txt", ".md"}
