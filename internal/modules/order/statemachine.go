package order

import (
	"designshop/internal/domain"
	"designshop/internal/modules/access"
)

// Action is a requested move through the order lifecycle. Target is only
// used by overrides.
type Action struct {
	Name   string
	Target domain.OrderStatus
}

var (
	ApproveDesign = Action{Name: "approve_design"}
	RejectDesign  = Action{Name: "reject_design"}
	Pay           = Action{Name: "pay"}
	Ship          = Action{Name: "ship"}
)

// Override sets any status in the enum, bypassing the lifecycle.
func Override(target domain.OrderStatus) Action {
	return Action{Name: "override", Target: target}
}

func (a Action) IsOverride() bool { return a.Name == "override" }

// Transition is the guard table of the order state machine. It checks the
// actor first and the current status second, and has no side effects.
//
//	pending_design  --approve_design--> design_approved   (designer)
//	pending_design  --reject_design---> design_rejected   (designer)
//	design_approved --pay-------------> paid              (owning customer)
//	paid            --ship------------> shipped           (management+)
//	any             --override--------> any in enum       (management+)
func Transition(current domain.OrderStatus, action Action, caller *access.Caller, o *domain.Order) (domain.OrderStatus, error) {
	if caller == nil {
		return current, access.ErrNotAuthenticated
	}

	switch action.Name {
	case ApproveDesign.Name, RejectDesign.Name:
		if !caller.IsDesigner() {
			return current, ErrDesignerRequired
		}
		if current != domain.OrderPendingDesign {
			return current, ErrNotPendingDesign
		}
		if action.Name == ApproveDesign.Name {
			return domain.OrderDesignApproved, nil
		}
		return domain.OrderDesignRejected, nil

	case Pay.Name:
		if o == nil || o.CustomerID != caller.UserID {
			return current, ErrNotYourOrder
		}
		if current != domain.OrderDesignApproved {
			return current, ErrNotReadyForPayment
		}
		return domain.OrderPaid, nil

	case Ship.Name:
		if !caller.IsManagementOrAbove() {
			return current, ErrManagementRequired
		}
		if current != domain.OrderPaid {
			return current, ErrNotReadyForShipment
		}
		return domain.OrderShipped, nil

	case "override":
		if !caller.IsManagementOrAbove() {
			return current, ErrManagementRequired
		}
		if !action.Target.Valid() {
			return current, ErrInvalidStatus
		}
		return action.Target, nil
	}

	return current, domain.NewError(domain.ErrValidation, "Unknown action")
}

// staleError is reported when the conditional write lost a race: the order
// left the precondition state between the read and the write.
func staleError(action Action) error {
	switch action.Name {
	case Pay.Name:
		return ErrNotReadyForPayment
	case Ship.Name:
		return ErrNotReadyForShipment
	default:
		return ErrNotPendingDesign
	}
}

// CanRead reports whether caller may see the order: the owner, management+,
// or a designer while the order still awaits design review.
func CanRead(caller *access.Caller, o *domain.Order) bool {
	switch {
	case caller == nil || o == nil:
		return false
	case o.CustomerID == caller.UserID:
		return true
	case caller.IsManagementOrAbove():
		return true
	default:
		return caller.IsDesigner() && o.Status == domain.OrderPendingDesign
	}
}
