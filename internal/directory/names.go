package directory

import "swissshield/pkg/domain"

var cantonNames = map[domain.Canton]string{
	"ZH": "Zürich",
	"BS": "Basel-Stadt",
	"BE": "Bern",
	"ZG": "Zug",
	"GE": "Genève",
	"VD": "Vaud",
}

var confessionNames = map[domain.Confession]string{
	domain.ConfessionCatholic: "Römisch-katholisch",
	domain.ConfessionReformed: "Evangelisch-reformiert",
}

// CantonName returns the display name of a canton, or the code itself.
func CantonName(c domain.Canton) string {
	if n, ok := cantonNames[c]; ok {
		return n
	}
	return string(c)
}

// ConfessionName returns the display name of a confession.
func ConfessionName(c domain.Confession) string {
	if n, ok := confessionNames[c]; ok {
		return n
	}
	return string(c)
}
