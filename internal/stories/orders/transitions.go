package orders

type edge struct {
	from Status
	to   Status
}

var transitions = map[Action]edge{
	ActionConfirm:   {from: StatusPending, to: StatusConfirmed},
	ActionReject:    {from: StatusPending, to: StatusRejected},
	ActionPreparing: {from: StatusConfirmed, to: StatusPreparing},
	ActionReady:     {from: StatusPreparing, to: StatusReady},
}

// actionOrder fixes the button order on admin keyboards.
var actionOrder = []Action{ActionConfirm, ActionReject, ActionPreparing, ActionReady}

// NextStatus validates action against the current status.
// An action whose target is already the current status is a replay and yields ErrStale.
func NextStatus(current Status, action Action) (Status, error) {
	e, ok := transitions[action]
	if !ok {
		return "", ErrInvalidTransition
	}

	switch current {
	case e.from:
		return e.to, nil
	case e.to:
		return "", ErrStale
	default:
		return "", ErrInvalidTransition
	}
}

// AllowedActions lists the state-changing actions available from status.
func AllowedActions(status Status) []Action {
	var actions []Action
	for _, a := range actionOrder {
		if transitions[a].from == status {
			actions = append(actions, a)
		}
	}
	return actions
}
