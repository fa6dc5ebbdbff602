package pipeline

// Stage is one model call made by the pipeline or a follow-up turn
type Stage int

const (
	StageDescribe Stage = iota
	StageRefineDescription
	StageGenerateHTML
	StageRefineHTML
	StageFollowUp
)

// Stages lists the pipeline stages in execution order
var Stages = []Stage{StageDescribe, StageRefineDescription, StageGenerateHTML, StageRefineHTML}

// ImagePolicy decides whether a stage resends the uploaded image
type ImagePolicy int

const (
	// AttachImage resends the image with the prompt. Pipeline stages do this
	// instead of trusting the model to remember it from earlier turns.
	AttachImage ImagePolicy = iota

	// OmitImage sends text only. Follow-up edits work from the embedded HTML
	// alone, so visual regressions that do not show in the markup go unseen.
	OmitImage
)

func (s Stage) String() string {
	switch s {
	case StageDescribe:
		return "describe"
	case StageRefineDescription:
		return "refine_description"
	case StageGenerateHTML:
		return "generate_html"
	case StageRefineHTML:
		return "refine_html"
	case StageFollowUp:
		return "follow_up"
	default:
		return "unknown"
	}
}

// Title is the progress message shown while the stage runs
func (s Stage) Title() string {
	switch s {
	case StageDescribe:
		return "Looking at your UI"
	case StageRefineDescription:
		return "Refining description with visual comparison"
	case StageGenerateHTML:
		return "Generating website"
	case StageRefineHTML:
		return "Refining website"
	case StageFollowUp:
		return "Thinking"
	default:
		return "Working"
	}
}

// Image returns the stage's attachment policy
func (s Stage) Image() ImagePolicy {
	if s == StageFollowUp {
		return OmitImage
	}
	return AttachImage
}

// ProducesHTML reports whether the stage's output is an HTML document
func (s Stage) ProducesHTML() bool {
	return s == StageGenerateHTML || s == StageRefineHTML || s == StageFollowUp
}
