package behavior

import "math/rand"

var encourageLines = []string{
	"Write one sentence. That's progress.",
	"Draft first, polish later.",
	"Keep it simple: one paragraph at a time.",
	"Cite as you go, future you will thank you.",
	"If it feels hard, shrink the task.",
	"Save your work. Ctrl+S.",
}

var restTips = []string{
	"Time to stretch. Relax your shoulders.",
	"Hydration check: take a sip of water.",
	"Look 20 seconds at something far away.",
	"Stand up for 30 seconds, your neck will thank you.",
}

func pick(rng *rand.Rand, lines []string) string {
	return lines[rng.Intn(len(lines))]
}
