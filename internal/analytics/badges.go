package analytics

type BadgeID string

const (
	BadgeSharpEye     BadgeID = "sharp_eye"
	BadgeSpeedDemon   BadgeID = "speed_demon"
	BadgeHighRoller   BadgeID = "high_roller"
	BadgeClimber      BadgeID = "climber"
	BadgeTriggerHappy BadgeID = "trigger_happy"
	BadgeVeteran      BadgeID = "veteran"
	BadgeMarathoner   BadgeID = "marathoner"
)

type Badge struct {
	ID          BadgeID
	Name        string
	Description string
	Icon        string
}

var AllBadges = map[BadgeID]Badge{
	BadgeSharpEye:     {ID: BadgeSharpEye, Name: "Sharp Eye", Description: "90%+ of dots tapped with 10+ taps", Icon: "🎯"},
	BadgeSpeedDemon:   {ID: BadgeSpeedDemon, Name: "Speed Demon", Description: "Average reaction time under 400ms", Icon: "⚡"},
	BadgeHighRoller:   {ID: BadgeHighRoller, Name: "High Roller", Description: "5000+ points in a single session", Icon: "💯"},
	BadgeClimber:      {ID: BadgeClimber, Name: "Climber", Description: "Reached level 10", Icon: "🧗"},
	BadgeTriggerHappy: {ID: BadgeTriggerHappy, Name: "Trigger Happy", Description: "1+ taps per second average", Icon: "👆"},
	BadgeVeteran:      {ID: BadgeVeteran, Name: "Veteran", Description: "Played 10+ sessions", Icon: "🏅"},
	BadgeMarathoner:   {ID: BadgeMarathoner, Name: "Marathoner", Description: "3 sessions in a row played to the end", Icon: "🏃"},
}

// EvaluateSessionBadges checks which badges a single session earned.
func EvaluateSessionBadges(stats SessionStats) []Badge {
	var earned []Badge

	if stats.Taps >= 10 && stats.Accuracy >= 90.0 {
		earned = append(earned, AllBadges[BadgeSharpEye])
	}

	// too few taps make the average meaningless
	if stats.Taps >= 5 && stats.AvgReaction > 0 && stats.AvgReaction < 400 {
		earned = append(earned, AllBadges[BadgeSpeedDemon])
	}

	if stats.Score >= 5000 {
		earned = append(earned, AllBadges[BadgeHighRoller])
	}

	if stats.Level >= 10 {
		earned = append(earned, AllBadges[BadgeClimber])
	}

	if stats.TPS >= 1.0 {
		earned = append(earned, AllBadges[BadgeTriggerHappy])
	}

	return earned
}

// EvaluateLifetimeBadges checks which badges the session history earned.
func EvaluateLifetimeBadges(stats LifetimeStats) []Badge {
	var earned []Badge

	if stats.CompletedStreak >= 3 {
		earned = append(earned, AllBadges[BadgeMarathoner])
	}

	if stats.SessionsPlayed >= 10 {
		earned = append(earned, AllBadges[BadgeVeteran])
	}

	return earned
}
