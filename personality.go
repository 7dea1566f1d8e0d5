package main

// ProfileKind selects one of the fixed AI personalities. ProfileNone marks the player (or a
// bot whose profile is missing) and disables AI decisions.
type ProfileKind int

const (
	ProfileNone ProfileKind = iota
	ProfileAggressive
	ProfileComboFocused
	ProfileBalanced
	ProfileCautious
)

// botProfiles is the pool bots are assigned from at spawn.
var botProfiles = []ProfileKind{ProfileAggressive, ProfileComboFocused, ProfileBalanced, ProfileCautious}

func (k ProfileKind) String() string {
	switch k {
	case ProfileAggressive:
		return "Aggressive"
	case ProfileComboFocused:
		return "Combo Master"
	case ProfileBalanced:
		return "Balanced"
	case ProfileCautious:
		return "Cautious"
	default:
		return "None"
	}
}

// Personality is the immutable tuning bundle assigned to an AI snake at spawn.
type Personality struct {
	Kind ProfileKind

	HuntingPriority float64 // 0..1 eagerness to chase prey
	ComboPriority   float64 // 0..1 eagerness to collect elements
	RiskTolerance   float64 // 0..1, low values boost away from danger sooner
	BoostThreshold  float64 // 0..1 fraction of stamina required for opportunistic boosts

	ChaseDistance float64 // max distance for snake targets
	FleeThreshold float64 // other/self length ratio above which a head is dangerous
	PreyRatioMax  float64 // self/other must exceed 1/PreyRatioMax for prey

	CollisionAvoidanceRadius float64
	DangerZoneRadius         float64

	AggressionMultiplier float64
	AvoidanceStrength    float64 // extra turn strength while evading
	PredictiveLookAhead  float64 // scales target extrapolation when hunting
	EncircleDistance     float64
	RamThreshold         float64 // self/other ratio required to ram
	CutoffAnticipation   float64 // blend weight of the predicted bearing when hunting
}

// ProfileFor returns the parameter bundle for kind.
func ProfileFor(kind ProfileKind) Personality {
	switch kind {
	case ProfileAggressive:
		return Personality{
			Kind:                     kind,
			HuntingPriority:          0.9,
			ComboPriority:            0.2,
			RiskTolerance:            0.8,
			BoostThreshold:           0.3,
			ChaseDistance:            800,
			FleeThreshold:            2.0,
			PreyRatioMax:             1.5,
			CollisionAvoidanceRadius: 60,
			DangerZoneRadius:         150,
			AggressionMultiplier:     2.0,
			AvoidanceStrength:        0.6,
			PredictiveLookAhead:      1.5,
			EncircleDistance:         250,
			RamThreshold:             1.2,
			CutoffAnticipation:       0.7,
		}
	case ProfileComboFocused:
		return Personality{
			Kind:                     kind,
			HuntingPriority:          0.1,
			ComboPriority:            0.95,
			RiskTolerance:            0.3,
			BoostThreshold:           0.6,
			ChaseDistance:            300,
			FleeThreshold:            1.2,
			PreyRatioMax:             0.8,
			CollisionAvoidanceRadius: 100,
			DangerZoneRadius:         300,
			AggressionMultiplier:     0.5,
			AvoidanceStrength:        1.2,
			PredictiveLookAhead:      0.5,
			EncircleDistance:         150,
			RamThreshold:             3.0,
			CutoffAnticipation:       0.2,
		}
	case ProfileBalanced:
		return Personality{
			Kind:                     kind,
			HuntingPriority:          0.5,
			ComboPriority:            0.6,
			RiskTolerance:            0.5,
			BoostThreshold:           0.5,
			ChaseDistance:            500,
			FleeThreshold:            1.5,
			PreyRatioMax:             1.0,
			CollisionAvoidanceRadius: 80,
			DangerZoneRadius:         220,
			AggressionMultiplier:     1.0,
			AvoidanceStrength:        1.0,
			PredictiveLookAhead:      1.0,
			EncircleDistance:         200,
			RamThreshold:             1.8,
			CutoffAnticipation:       0.5,
		}
	case ProfileCautious:
		return Personality{
			Kind:                     kind,
			HuntingPriority:          0.05,
			ComboPriority:            0.7,
			RiskTolerance:            0.1,
			BoostThreshold:           0.7,
			ChaseDistance:            200,
			FleeThreshold:            1.1,
			PreyRatioMax:             0.6,
			CollisionAvoidanceRadius: 120,
			DangerZoneRadius:         350,
			AggressionMultiplier:     0.3,
			AvoidanceStrength:        1.5,
			PredictiveLookAhead:      0.3,
			EncircleDistance:         120,
			RamThreshold:             4.0,
			CutoffAnticipation:       0.1,
		}
	default:
		return Personality{}
	}
}
