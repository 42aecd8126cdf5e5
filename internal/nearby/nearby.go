// Package nearby serves the dummy nearby-lunch recommendation used while
// no real place search is wired up. Candidates are fixed; only the map
// links are anchored at the sender's coordinates.
package nearby

import "fmt"

// Place is one recommendation candidate.
type Place struct {
	Name     string
	Rating   float64
	Photo    string
	URL      string
	Distance string
	Hours    string
}

// Search returns the stand-in candidate list around the given coordinates.
// The query is accepted for interface stability but does not filter.
func Search(latitude, longitude float64, query string) []Place {
	mapURL := fmt.Sprintf("https://maps.google.com/?q=%v,%v", latitude, longitude)
	return []Place{
		{Name: "麺やサンプル", Rating: 4.2, Photo: "https://picsum.photos/800/450", URL: mapURL, Distance: "徒歩6分", Hours: "11:00-15:00,17:00-21:00"},
		{Name: "カレー例", Rating: 4.0, Photo: "https://picsum.photos/801/450", URL: mapURL, Distance: "徒歩8分", Hours: "11:00-20:00"},
		{Name: "定食サンプル", Rating: 4.1, Photo: "https://picsum.photos/802/450", URL: mapURL, Distance: "徒歩4分", Hours: "11:00-21:00"},
	}
}
