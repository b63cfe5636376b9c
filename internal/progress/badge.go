package progress

// Badge is a streak tier shown on the profile.
type Badge struct {
	Name      string `json:"name"`
	Threshold int    `json:"threshold"`
	Earned    bool   `json:"earned"`
}

var badgeTiers = []Badge{
	{Name: "Seeker", Threshold: 7},
	{Name: "Devotee", Threshold: 14},
	{Name: "Master", Threshold: 30},
}

// Badges lists every tier, marking those reached by the longest streak.
func Badges(longest int) []Badge {
	out := make([]Badge, len(badgeTiers))
	for i, b := range badgeTiers {
		b.Earned = longest >= b.Threshold
		out[i] = b
	}
	return out
}

// Tier returns the highest badge earned, or "" if none.
func Tier(longest int) string {
	tier := ""
	for _, b := range badgeTiers {
		if longest >= b.Threshold {
			tier = b.Name
		}
	}
	return tier
}
