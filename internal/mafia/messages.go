package mafia

import (
	"math/rand/v2"
	"strings"

	"github.com/lox/partybots/internal/randutil"
)

// Messenger is the transport capability the session uses to reach the
// room. Private delivery may fail with ErrUnreachable, which callers
// treat as non-fatal.
type Messenger interface {
	Public(text string)
	Private(id ParticipantID, text string) error
}

var deathMessages = []string{
	"was found dead in their home",
	"was brutally murdered during the night",
	"was silenced permanently by the Mafia",
	"was stabbed in the back - literally",
	"will not be waking up this morning",
	"met a grisly end at the hands of the Mafia",
	"was eliminated by the Mafia's hit squad",
	"is sleeping with the fishes now",
	"has been taken out by the Mafia",
}

var lynchMessages = []string{
	"was dragged to the town square and hanged",
	"was voted out by the angry mob",
	"was executed for their alleged crimes",
	"faced the town's justice",
	"was eliminated by town vote",
	"met their fate at the gallows",
	"was found guilty by town consensus",
}

func deathMessage(rng *rand.Rand) string {
	return randutil.Pick(rng, deathMessages)
}

func lynchMessage(rng *rand.Rand) string {
	return randutil.Pick(rng, lynchMessages)
}

// formatList joins names as "a, b, and c".
func formatList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}
