package level

// Honor is the cosmetic rank shown on the end screens and the leaderboard.
type Honor struct {
	Tier  int // 0 (rookie) .. 10 (cleared level 100)
	Title string
}

var honorTitles = [...]string{
	"Rookie Archer",
	"Showing Promise",
	"Sharpshooter",
	"Archery Adept",
	"Archery Expert",
	"Hundred-Pace Marksman",
	"Master of the Bow",
	"Peerless Fletcher",
	"Arrow Sovereign",
	"Transcendent Archer",
	"Surely Cheating",
}

// HonorFor derives the honor rank from the highest level reached. won marks a
// completed game, which is the only way to reach the top tier.
func HonorFor(id int, won bool) Honor {
	tier := 0
	switch {
	case id >= Count && won:
		tier = 10
	case id >= 91:
		tier = 9
	case id >= 11:
		tier = (id - 1) / 10 // 11..20 -> 1, 81..90 -> 8
	}
	return Honor{Tier: tier, Title: honorTitles[tier]}
}
