package roasts

import "math/rand/v2"

// Catalog is the full set of servable roasts. Order carries no meaning;
// only membership and count do.
var Catalog = []string{
	"You bring everyone together… by leaving the room.",
	"You don't need enemies. Your decisions do enough damage.",
	"I've analyzed your potential. Results inconclusive.",
	"You're proof that participation trophies were a mistake.",
	"Your fashion sense is so unique… like a cry for help.",
	"You're like a software update. Nobody wants you, but you show up anyway.",
	"I'd agree with you, but then we'd both be wrong.",
	"You're not stupid. You just have bad luck when thinking.",
	"If I wanted to hear from you, I'd read your error logs.",
	"You're like a cloud. When you disappear, it's a beautiful day.",
	"Your code works? Must be a cosmic accident.",
	"You're living proof that evolution can go in reverse.",
	"I'd explain it to you, but I left my crayons at home.",
	"You're not lazy. You're just highly motivated to do nothing.",
	"Your ideas are like pop-up ads. Unwanted and easily blocked.",
	"You peaked in the tutorial.",
	"You're like a broken pencil… pointless.",
	"I've seen better decision-making from a Magic 8-Ball.",
	"You're the human equivalent of a loading screen.",
	"Your potential is like dark matter. Theoretically there, but undetectable.",
}

// Random returns a uniformly chosen roast. Repeats are allowed.
func Random() string {
	return Catalog[rand.IntN(len(Catalog))]
}
