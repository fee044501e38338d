package statemachine

import "errors"

// OrderState is the two-valued order lifecycle. It maps directly onto the
// boolean status column: false while the order awaits delivery, true once
// the assigned crew member hands it over.
type OrderState bool

const (
	StatePlaced    OrderState = false
	StateDelivered OrderState = true
)

func (s OrderState) String() string {
	if s == StateDelivered {
		return "DELIVERED"
	}
	return "PLACED"
}

// Actor identifies who is attempting a transition.
const (
	ActorManager      = "manager"
	ActorDeliveryCrew = "delivery_crew"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  OrderState
	To    OrderState
	Actor string
}

// validTransitions is the authoritative state machine definition. Managers
// may also reverse a delivery (correcting a mis-tap), delivery crew may not.
var validTransitions = []Transition{
	{From: StatePlaced, To: StateDelivered, Actor: ActorManager},
	{From: StatePlaced, To: StateDelivered, Actor: ActorDeliveryCrew},
	{From: StateDelivered, To: StatePlaced, Actor: ActorManager},
}

type transitionKey struct {
	From  OrderState
	To    OrderState
	Actor string
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// CanTransition checks whether the actor may move an order between states.
// A no-op "transition" to the current state is always allowed.
func CanTransition(from, to OrderState, actor string) error {
	if from == to {
		return nil
	}
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return errors.New("invalid transition: " + from.String() + " → " + to.String() +
		" is not allowed for actor '" + actor + "'")
}

// CanMarkDelivered enforces the assignment guard: an order can only reach
// DELIVERED once a delivery crew member is assigned to it.
func CanMarkDelivered(deliveryCrewID *uint) error {
	if deliveryCrewID == nil {
		return errors.New("cannot mark an order delivered with no delivery crew assigned")
	}
	return nil
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
