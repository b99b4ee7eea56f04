package client

import "fmt"

type SubmitState int

const (
	SubmitIdle SubmitState = iota
	SubmitSending
	SubmitSuccess
	SubmitDisabled
)

func (s SubmitState) String() string {
	switch s {
	case SubmitSending:
		return "sending"
	case SubmitSuccess:
		return "success"
	case SubmitDisabled:
		return "disabled"
	default:
		return "idle"
	}
}

// Reflector is the UI sink a Session reports to.
type Reflector interface {
	ShowNotification(message string, severity Severity)
	AddHistoryItem(message string)
	UpdateNextEvent(onTime, offTime string)
	SetBulbAnimated(animated bool)
	SetSubmitState(state SubmitState)
	ShakeSubmit()
}

func NextEventText(onTime, offTime string) string {
	return fmt.Sprintf("Next: ON at %s, OFF at %s", onTime, offTime)
}
