package model

// StudyMode 学习模式，只随请求传递，不落库
type StudyMode string

const (
	ModeCrisis      StudyMode = "crisis"
	ModeDeep        StudyMode = "deep"
	ModeMaintenance StudyMode = "maintenance"
	ModeCustom      StudyMode = "custom"
	ModeCram        StudyMode = "cram"
)

var StudyModes = []StudyMode{ModeCrisis, ModeDeep, ModeMaintenance, ModeCustom, ModeCram}
