package backend

import (
	"context"
	"hash/fnv"
	"strings"
)

// DemoAdapter answers offline from a fixed archive of pre-authored replies.
// It scans the prompt for known keyword families and picks one reply from the
// matching family's pool. The pick is a hash of the prompt, so the same prompt
// always yields the same reply. This adapter is the universal fallback target;
// it never returns an error.
type DemoAdapter struct{}

func NewDemo() *DemoAdapter { return &DemoAdapter{} }

func (d *DemoAdapter) ID() ID { return Demo }

func (d *DemoAdapter) Call(_ context.Context, prompt, _ string, _ int, _ float64) (string, error) {
	return d.Reply(prompt), nil
}

// Reply returns the archive's answer for the prompt. The first matching
// keyword family wins; with no match the clarifying reply invites the user to
// rephrase.
func (d *DemoAdapter) Reply(prompt string) string {
	lower := strings.ToLower(prompt)
	for _, fam := range families {
		if fam.matches(lower) {
			return pick(fam.replies, lower)
		}
	}
	return ClarifyingReply
}

// Replies returns the full reply pool for the family matching the prompt, or
// nil when no family matches.
func (d *DemoAdapter) Replies(prompt string) []string {
	lower := strings.ToLower(prompt)
	for _, fam := range families {
		if fam.matches(lower) {
			return fam.replies
		}
	}
	return nil
}

// ClarifyingReply is returned when no keyword family matches.
const ClarifyingReply = "I sense your curiosity may have drifted beyond my archive. " +
	"Which concept from the surface world would you like me to explore for you?"

type family struct {
	name     string
	keywords []string
	replies  []string
}

func (f family) matches(lower string) bool {
	for _, kw := range f.keywords {
		if containsWordStart(lower, kw) {
			return true
		}
	}
	return false
}

// containsWordStart reports whether kw occurs in s at the start of a word, so
// "air" matches "air is" and "the air" but not "hair", while "run" still
// matches "running".
func containsWordStart(s, kw string) bool {
	for from := 0; ; {
		i := strings.Index(s[from:], kw)
		if i < 0 {
			return false
		}
		i += from
		if i == 0 || !isWordByte(s[i-1]) {
			return true
		}
		from = i + 1
	}
}

func isWordByte(b byte) bool {
	return ('a' <= b && b <= 'z') || ('0' <= b && b <= '9')
}

func pick(pool []string, lower string) string {
	h := fnv.New32a()
	h.Write([]byte(lower))
	return pool[int(h.Sum32())%len(pool)]
}

// Every authored reply is at most three sentences and ends with a question,
// so the normalizer passes them through untouched.
var families = []family{
	{
		name:     "motion",
		keywords: []string{"walk", "run"},
		replies: []string{
			"Walking and running were rituals of friction and breath, where people threw themselves forward using only their legs until their lungs burned. Can you imagine propelling yourself without water resistance?",
			"Running is like jet-slipper movement but powered by leg muscles against ground that doesn't float. Have you ever tried to move quickly through the dome corridors without your propulsion gear?",
		},
	},
	{
		name:     "sky",
		keywords: []string{"sky", "air", "cloud"},
		replies: []string{
			"The sky is a protective layer that is very far away, and may change colors depending on the universe's mood. Have you ever wondered what it felt like to stand beneath it?",
			"Imagine the space between our dome and the ocean surface, but instead of water there is nothing but air, vast and filled with clouds that drift like jellyfish. Does that sound peaceful to you?",
		},
	},
	{
		name:     "camel",
		keywords: []string{"camel"},
		replies: []string{
			"Camels are creatures walking on four legs, a living water tank wrapped in carpet, powered by spite and sand. Does that sound like any creature you've encountered in our waters?",
			"A camel is like an organic cargo pod with legs, designed to survive the surface heat that drove us underwater. It stored water the way our oxygen recyclers store breath, wouldn't you agree that is clever?",
		},
	},
	{
		name:     "pillow",
		keywords: []string{"pillow"},
		replies: []string{
			"A pillow is like a friendly piece of surface-world coral that forgot to be hard. Surface dwellers placed it under their heads when they slept, because their necks were weak from not swimming all day. Can you picture resting without floating?",
			"Imagine the soft padding inside your bubble helm, but larger and used during sleep. Land dwellers needed this because they could not float while resting, doesn't that strike you as uncomfortable?",
		},
	},
	{
		name:     "sun",
		keywords: []string{"sun"},
		replies: []string{
			"The sun is a massive sphere of burning gas very far away, like our dome lights but natural and impossibly brighter. Your grandparents could feel it on their skin, have you ever wondered what warmth from above felt like?",
			"Sunlight is that faint grey glow above the ocean surface, but on land it was direct and warm. It powered plant life before the heat became unbearable, can you imagine light strong enough to burn?",
		},
	},
	{
		name:     "land",
		keywords: []string{"land", "earth", "ground", "desert"},
		replies: []string{
			"Land is a place, a space, where humans lived. Above the land humans walked, ran, and travelled far, building structures that scraped the skies. What would you do first if you could stand on solid ground?",
			"Land is solid water, it does not flow or move. Your ancestors stood on it without floating and built upon it without anchoring to the seafloor. Quite different from our pressurized existence, isn't it?",
		},
	},
	{
		name:     "bicycle",
		keywords: []string{"bicycle", "bike"},
		replies: []string{
			"A bicycle is a manual propulsion device with two wheels, powered by pushing pedals in circles with your legs. No oxygen credits needed, just leg strength, would you have had the balance for it?",
			"Bicycles are like sea strider pods, but human-powered and requiring perfect balance since there is no water to float in. Does riding one sound harder than swimming to you?",
		},
	},
	{
		name:     "tree",
		keywords: []string{"tree", "plant", "forest"},
		replies: []string{
			"Trees are like the kelp forests you see outside the dome, but they lived in air instead of water. Tall, stationary organisms that produced oxygen and gave shelter, have you imagined kelp standing tall without floating?",
			"Plants on land were like the algae in our oxygen recyclers, but they grew in soil, solid nutrient-rich ground. Trees were the giants among them, some as tall as our colony buildings, can you picture that?",
		},
	},
	{
		name:     "vehicle",
		keywords: []string{"car", "vehicle"},
		replies: []string{
			"Cars are surface-world versions of sea strider pods, metal boxes with wheels that rolled on hard surfaces. Your ancestors sat inside and traveled without swimming, what do you think it felt like to move without the ocean's embrace?",
			"A car is like a bullet pod, but it traveled on land using wheels, no water resistance, just rolling friction. They burned ancient plant matter for fuel, doesn't our electric system sound kinder?",
		},
	},
	{
		name:     "colony",
		keywords: []string{"amphitopia", "colony", "underwater", "ocean"},
		replies: []string{
			"We exist in Amphitopia, beneath the Arabian Sea, where your grandparents journeyed when the surface became uninhabitable. I preserve their memories of what was left behind, which of those memories calls to you?",
			"Amphitopia is humanity's adaptation to Earth's fever. Down here the ocean cools us, up there the sun would burn us, what else would you like to know about the world above?",
		},
	},
	{
		name:     "ancestors",
		keywords: []string{"ancestor", "grandparent", "past", "before", "history"},
		replies: []string{
			"Your grandparents walked on land, breathed open air, and felt direct sunlight. I preserve these experiences so younger generations can understand what was lost and gained, what part of their world puzzles you most?",
			"Before the migration, gravity pulled harder, breathing was free, and the horizon stretched endlessly. I can help you understand that world, where shall we begin?",
		},
	},
}
