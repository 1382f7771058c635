package tasks

// Stage identifies a step of the save pipeline.
type Stage int

const (
	StageValidate Stage = iota
	StageResolveCategory
	StageWriteContent
	StageReconcileFocusAreas
)

func (s Stage) String() string {
	switch s {
	case StageValidate:
		return "validate"
	case StageResolveCategory:
		return "resolve_category"
	case StageWriteContent:
		return "write_content"
	case StageReconcileFocusAreas:
		return "reconcile_focus_areas"
	default:
		return ""
	}
}
