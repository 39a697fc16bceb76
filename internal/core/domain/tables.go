package domain

import "sync"

// Variant is one entry of an escalating canned response table.
type Variant struct {
	Title       string
	Description string
	Color       int
}

type ActivityKind int

const (
	Playing ActivityKind = iota
	Watching
	Listening
	Custom
)

type Activity struct {
	Kind ActivityKind
	Name string
}

const ErrorColor = 0xED4245

// TftiTitlePrefix marks the bot's own tfti replies.
const TftiTitlePrefix = "😤 Tfti"

// The tables below are built once on first use and must never be mutated by callers.

var Palette = sync.OnceValue(func() []int {
	return []int{
		0xF5C2E7,
		0xCBA6F7,
		0xF38BA8,
		0xEBA0AC,
		0xFAB387,
		0xF9E2AF,
		0xA6E3A1,
		0x94E2D5,
		0x89DCEB,
		0x74C7EC,
		0x89B4FA,
		0xB4BEFE,
	}
})

var Activities = sync.OnceValue(func() []Activity {
	return []Activity{
		{Playing, "Pokémon"},
		{Playing, "Gooning Aim Trainer"},
		{Playing, "Battletoads"},
		{Playing, "Counter-Strike 2"},
		{Playing, "Hello Kitty Island Adventure"},
		{Playing, "Badminton"},
		{Watching, "JasonTheWeen"},
		{Watching, "xQc"},
		{Watching, "Pokimane"},
		{Watching, "Dantes"},
		{Listening, "ZWE1HVNDXR"},
		{Listening, "Illenium"},
		{Listening, "The Chainsmokers"},
		{Listening, "KSI"},
		{Custom, "Going to Plan B"},
		{Custom, "Clubbing at Mission"},
		{Custom, "Waiting in line at Den Social"},
	}
})

var EightBallAnswers = sync.OnceValue(func() []string {
	return []string{
		"It is certain",
		"Outlook good",
		"Most likely",
		"Signs point to yes",
		"Yes",
		"It is decidedly so",
		"As I see it, yes",
		"You may rely on it",
		"Yes definitely",
		"Without a doubt",
		"The odds are in your favor",
		"All signs say yes",
		"Absolutely!",
		"Without hesitation, yes",
		"The universe says yes",
		"You can bet on it",
		"Yes, without question",
		"The answer is a resounding yes",
		"It's a green light",
		"Yes, and it's looking great",
		"Don't count on it",
		"My reply is no",
		"My sources say no",
		"Outlook not so good",
		"Very doubtful",
		"Not a chance",
		"Outlook is grim",
		"Absolutely not",
		"The stars say no",
		"The answer is no",
		"I wouldn't count on it",
		"Highly unlikely",
		"The universe says no",
		"No way",
		"The answer is a firm no",
		"Negative vibes only",
		"The signs aren't good",
		"It's a red light",
		"No, and don't ask again",
		"Signs point to no",
	}
})

// TftiVariants is ordered by escalation. The last entry is the overflow variant.
var TftiVariants = sync.OnceValue(func() []Variant {
	const base = "Thanks for the invite, asshole"
	return []Variant{
		{TftiTitlePrefix, base, 0xF38BA8},
		{TftiTitlePrefix + " x2", base + "\nOh wait, that was just said", 0xFAB387},
		{TftiTitlePrefix + " x3", base + "\nFeels like I'm on repeat here", 0xA6E3A1},
		{TftiTitlePrefix + " x4", base + "\nGuess we'll just keep saying it", 0x89DCEB},
		{TftiTitlePrefix + " x5", base + "\nI could stop, but why bother?", 0xB4BEFE},
		{TftiTitlePrefix + " x6", base + "\nJust keep pretending I don't exist, as usual", 0xCBA6F7},
		{TftiTitlePrefix + " x7", base + "\nStill feels worth repeating", 0xF5C2E7},
		{TftiTitlePrefix + " x8", base + "\nI guess this is just what I do now", 0x94E2D5},
		{TftiTitlePrefix + " x9", base + "\nForever and always, from the bottom of my heart", 0xF5E0DC},
		{TftiTitlePrefix + " ♾️", base + "\nTo infinity and beyond", 0x74C7EC},
	}
})
