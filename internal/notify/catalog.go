package notify

// Tone is a category of notification voice governing which pool is sampled.
type Tone string

const (
	ToneMotivational      Tone = "motivational"
	ToneSarcastic         Tone = "sarcastic"
	TonePlayful           Tone = "playful"
	ToneReversePsychology Tone = "reverse_psychology"
	ToneFocus             Tone = "focus"
	ToneNerdy             Tone = "nerdy"
)

const namePlaceholder = "{name}"

// TonePool holds the templates of one tone. Greetings may contain {name}.
type TonePool struct {
	Tone      Tone
	Greetings []string
	Messages  []string
	SignOffs  []string
}

// Catalog is the full content a Generator samples from.
type Catalog struct {
	Tones           []TonePool
	CompletedQuotes []string
	PendingQuotes   []string
}

// DefaultCatalog returns the built-in reminder tones and summary quotes.
func DefaultCatalog() Catalog {
	return Catalog{
		Tones: []TonePool{
			{
				Tone:      ToneMotivational,
				Greetings: []string{"Hi {name},", "Good morning {name}!", "Hey {name}, champion!"},
				Messages: []string{
					"You haven't added any tasks today. Small steps every day add up to big results. 💪",
					"Today is a blank page. Write one task on it and start the streak! 🚀",
					"Consistency beats intensity. Add a task now and keep the momentum going. 🔥",
				},
				SignOffs: []string{"Keep shining,", "You've got this,", "Onwards,"},
			},
			{
				Tone:      ToneSarcastic,
				Greetings: []string{"Well, well, {name}.", "Oh hello {name},", "{name}, we need to talk."},
				Messages: []string{
					"Your task list is so empty it echoes. Impressive, really. 🙄",
					"Zero tasks today? Bold strategy. Let's see if it pays off.",
					"We checked twice. Still no tasks. The suspense is unbearable.",
				},
				SignOffs: []string{"Slow clap,", "Totally not judging,", "Yours in disbelief,"},
			},
			{
				Tone:      TonePlayful,
				Greetings: []string{"Psst, {name}!", "Yoo-hoo {name} 👋", "Knock knock, {name}!"},
				Messages: []string{
					"Your task list is feeling lonely. Give it a friend! 🧸",
					"The leaderboard misses you. Add a task and come say hi. 🏆",
					"Tasks are like cookies: better when there's at least one. 🍪",
				},
				SignOffs: []string{"Tag, you're it!", "Hugs and checkboxes,", "Wink wink,"},
			},
			{
				Tone:      ToneReversePsychology,
				Greetings: []string{"Dear {name},", "{name}, don't read this.", "Hello {name},"},
				Messages: []string{
					"Whatever you do, do NOT add a task today. Points are overrated anyway.",
					"Please don't climb the leaderboard. Everyone else would be so upset.",
					"Adding a task would be far too productive. Better not. 😏",
				},
				SignOffs: []string{"Definitely not encouraging you,", "No pressure,", "Don't prove us wrong,"},
			},
			{
				Tone:      ToneFocus,
				Greetings: []string{"{name},", "Quick check-in, {name}.", "Morning {name}."},
				Messages: []string{
					"Pick the one thing that matters most today and add it as a task.",
					"Clarity first: write down today's priority before the day gets busy.",
					"A single, well-defined task beats a vague plan. Add yours now. 🎯",
				},
				SignOffs: []string{"Stay focused,", "One thing at a time,", "Eyes on the prize,"},
			},
			{
				Tone:      ToneNerdy,
				Greetings: []string{"Hello, {name}.exe", "Greetings, Player {name}", "sudo wake {name}"},
				Messages: []string{
					"Error 404: today's tasks not found. Please push at least one commit to your to-do list. 🤓",
					"Your XP bar isn't going to fill itself. Add a quest! 🎮",
					"while (today) { addTask(); } // infinite productivity loop",
				},
				SignOffs: []string{"May the force be with you,", "git commit -m \"done\",", "Live long and prosper,"},
			},
		},
		CompletedQuotes: []string{
			"Congratulations on completing your tasks today! You're on fire! 🔥 Keep it up and conquer tomorrow with the same energy! 💪",
			"All tasks checked off, you're crushing it! 🏆 Keep up the great work and stay on top of your goals! 🌟",
			"Mission complete! ✅ You've checked everything off the list. Well deserved relaxation ahead! 🌙",
			"You finished every task! 🎯 What a way to end the day. Keep pushing yourself forward. 🚀",
			"Success is the sum of small efforts, repeated day in and day out. 💪",
			"Discipline is the bridge between goals and accomplishment. 🌉",
			"Progress, not perfection. 📈",
		},
		PendingQuotes: []string{
			"You're so close! 😅 A few tasks left, and tomorrow's a new day to finish strong! 🌅",
			"Not quite there yet, but you're making progress! 💼 Tomorrow, let's cross off those remaining tasks! ✅",
			"Great progress today! 👍 A few tasks left to wrap up. Let's finish strong tomorrow! 🏁",
			"Every day is a chance to get better. Don't give up! 🌱",
			"Great things never come from comfort zones. 🚀",
			"Keep going. Everything you need will come to you at the perfect time. ⏰",
		},
	}
}
