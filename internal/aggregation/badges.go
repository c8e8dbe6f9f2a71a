package aggregation

import "github.com/fastygo/teamtracker/domain"

var tiers = []struct {
	min   int
	badge domain.Badge
}{
	{100, domain.BadgeLegend},
	{50, domain.BadgeGold},
	{25, domain.BadgeSilver},
	{10, domain.BadgeBronze},
}

// Badges returns every tier unlocked by points, highest first. Tiers are
// cumulative: 120 points holds Legend, Gold, Silver and Bronze.
func Badges(points int) []domain.Badge {
	badges := make([]domain.Badge, 0, len(tiers))
	for _, tier := range tiers {
		if points >= tier.min {
			badges = append(badges, tier.badge)
		}
	}
	if points == 0 {
		badges = append(badges, domain.BadgeGettingStarted)
	}
	return badges
}
