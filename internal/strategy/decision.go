package strategy

// Action is the trading action recommended by the decision engine.
type Action int

const (
	ActionHold Action = iota
	ActionBuy
	ActionSell
)

func (a Action) String() string {
	switch a {
	case ActionHold:
		return "HOLD"
	case ActionBuy:
		return "BUY"
	case ActionSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// SignalStrength tiers a decision by how far the total score cleared its
// threshold. Each tier maps to a fixed investment multiplier the caller
// uses for order sizing.
type SignalStrength int

const (
	StrengthNone SignalStrength = iota
	StrengthWeak
	StrengthMedium
	StrengthStrong
	StrengthVeryStrong
)

// Tier bands over the score's distance past its threshold.
const (
	veryStrongBand = 15.0
	strongBand     = 8.0
	mediumBand     = 3.0
)

func (s SignalStrength) String() string {
	switch s {
	case StrengthWeak:
		return "WEAK"
	case StrengthMedium:
		return "MEDIUM"
	case StrengthStrong:
		return "STRONG"
	case StrengthVeryStrong:
		return "VERY_STRONG"
	default:
		return "NONE"
	}
}

// Multiplier returns the investment multiplier bound to the tier.
func (s SignalStrength) Multiplier() float64 {
	switch s {
	case StrengthWeak:
		return 1.0
	case StrengthMedium:
		return 1.5
	case StrengthStrong:
		return 2.2
	case StrengthVeryStrong:
		return 3.0
	default:
		return 0
	}
}

// strengthFromDistance tiers the signed distance of the total score past
// its threshold. Distances below zero carry no signal.
func strengthFromDistance(distance float64) SignalStrength {
	switch {
	case distance >= veryStrongBand:
		return StrengthVeryStrong
	case distance >= strongBand:
		return StrengthStrong
	case distance >= mediumBand:
		return StrengthMedium
	case distance >= 0:
		return StrengthWeak
	default:
		return StrengthNone
	}
}

// Decision is the scored outcome of one evaluation step.
type Decision struct {
	Action     Action
	Reason     string
	Confidence float64 // 0..1
	Strength   SignalStrength

	TechnicalScore float64
	SentimentScore float64
	TotalScore     float64
}
