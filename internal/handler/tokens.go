package handler

// seatTokens maps the opaque per-player entry-link tokens to seat numbers.
// Static lookup only; the tokens carry no state and grant nothing beyond
// knowing which seat a player link belongs to.
var seatTokens = map[string]int{
	"k7Qa2Zp": 1,
	"M4x9BdR": 2,
	"t6Yp1Nc": 3,
	"H8v3LsA": 4,
	"q2Wn7Te": 5,
}

func SeatForToken(token string) (int, bool) {
	seat, ok := seatTokens[token]
	return seat, ok
}
