package pipeline

import "time"

// Observer is told about every model call. Intermediate artifacts reach the
// user through StageFinished; they are not kept in the session history.
type Observer interface {
	StageStarted(stage Stage)
	StageFinished(stage Stage, output string, err error, elapsed time.Duration)
}

// Observers fans events out in order
type Observers []Observer

func (o Observers) StageStarted(stage Stage) {
	for _, obs := range o {
		obs.StageStarted(stage)
	}
}

func (o Observers) StageFinished(stage Stage, output string, err error, elapsed time.Duration) {
	for _, obs := range o {
		obs.StageFinished(stage, output, err, elapsed)
	}
}
