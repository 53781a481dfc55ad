package workflow

import "time"

// Run and node statuses reported to observers.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Observer receives execution measurements. Implementations must be safe for
// concurrent use.
type Observer interface {
	ObserveRun(workflow, status string, duration time.Duration)
	ObserveNode(workflow, node, status string, duration time.Duration)
	ObserveSuperstep(workflow string, width int)
}

type nopObserver struct{}

func (nopObserver) ObserveRun(string, string, time.Duration)         {}
func (nopObserver) ObserveNode(string, string, string, time.Duration) {}
func (nopObserver) ObserveSuperstep(string, int)                     {}

// MultiObserver reports to every non-nil observer in order.
func MultiObserver(observers ...Observer) Observer {
	var out multiObserver
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return nopObserver{}
	}
	return out
}

type multiObserver []Observer

func (m multiObserver) ObserveRun(workflow, status string, d time.Duration) {
	for _, o := range m {
		o.ObserveRun(workflow, status, d)
	}
}

func (m multiObserver) ObserveNode(workflow, node, status string, d time.Duration) {
	for _, o := range m {
		o.ObserveNode(workflow, node, status, d)
	}
}

func (m multiObserver) ObserveSuperstep(workflow string, width int) {
	for _, o := range m {
		o.ObserveSuperstep(workflow, width)
	}
}
