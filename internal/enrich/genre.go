package enrich

import "strings"

// classifyGenre buckets a live channel's name/category into a coarse
// genre using a keyword-bucket approach.
func classifyGenre(name, category string) string {
	hay := strings.ToUpper(strings.TrimSpace(category) + " " + strings.TrimSpace(name))

	switch {
	case containsAny(hay, "ESPN", "DAZN", "SKY SPORTS", "BT SPORT", "NHL", "NFL", "NBA", "MLB", "UFC", "WWE", "BEIN SPORT", "FORMULA 1", "F1", "SPORT"):
		return "Sports"
	case containsAny(hay, "CNN", "BBC NEWS", "FOX NEWS", "MSNBC", "CNBC", "BLOOMBERG", "AL JAZEERA", "FRANCE 24", "SKY NEWS", "NEWS"):
		return "News"
	case containsAny(hay, "MTV", "MUCHMUSIC", "VEVO", "MUSIC", "KARAOKE", "CONCERT"):
		return "Music"
	case containsAny(hay, "NICKELODEON", "CARTOON NETWORK", "PBS KIDS", "DISNEY JUNIOR", "DISNEY CHANNEL", "DISNEY XD", "KIDS", "CHILD"):
		return "Kids"
	case containsAny(hay, "DISCOVERY", "HISTORY", "NAT GEO", "NATIONAL GEOGRAPHIC", "DOCUMENTARY", "ANIMAL PLANET"):
		return "Documentary"
	case containsAny(hay, "COMEDY", "DRAMA", "MOVIES", "CINEMA", "ENTERTAINMENT", "HBO", "SHOWTIME"):
		return "Entertainment"
	default:
		return "General"
	}
}

// containsAny reports whether hay contains any needle as a
// word-boundary-padded substring.
func containsAny(hay string, needles ...string) bool {
	padded := " " + hay + " "
	for _, n := range needles {
		if strings.Contains(padded, " "+n+" ") {
			return true
		}
	}
	return false
}
