// Package zodiac holds the static catalog of the twelve signs.
package zodiac

// Sign is one entry of the zodiac catalog. IDs run 1..12 in the
// traditional order starting at Aries.
type Sign struct {
	ID     int
	Name   string
	Symbol string
}

// Count is the number of signs in the catalog.
const Count = 12

var catalog = [Count]Sign{
	{ID: 1, Name: "Aries", Symbol: "♈"},
	{ID: 2, Name: "Taurus", Symbol: "♉"},
	{ID: 3, Name: "Gemini", Symbol: "♊"},
	{ID: 4, Name: "Cancer", Symbol: "♋"},
	{ID: 5, Name: "Leo", Symbol: "♌"},
	{ID: 6, Name: "Virgo", Symbol: "♍"},
	{ID: 7, Name: "Libra", Symbol: "♎"},
	{ID: 8, Name: "Scorpio", Symbol: "♏"},
	{ID: 9, Name: "Sagittarius", Symbol: "♐"},
	{ID: 10, Name: "Capricorn", Symbol: "♑"},
	{ID: 11, Name: "Aquarius", Symbol: "♒"},
	{ID: 12, Name: "Pisces", Symbol: "♓"},
}

// All returns the full catalog in id order. The returned slice is a
// copy; callers may reorder it freely.
func All() []Sign {
	signs := make([]Sign, Count)
	copy(signs, catalog[:])
	return signs
}

// ByID looks up a sign by its id. ok is false when the id is outside
// 1..12.
func ByID(id int) (Sign, bool) {
	if !ValidID(id) {
		return Sign{}, false
	}
	return catalog[id-1], true
}

// ValidID reports whether id is a catalog sign id.
func ValidID(id int) bool {
	return id >= 1 && id <= Count
}
