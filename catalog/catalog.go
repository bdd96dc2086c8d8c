// Package catalog holds the static survey questions, grouped by the
// section they are shown in.
package catalog

import "github.com/mbolis/tichi-survey/model"

const (
	Basics  = "basics"
	Needs   = "needs"
	Tichi   = "tichi"
	Journey = "journey"
)

var categories = []string{Basics, Needs, Tichi, Journey}

var questions = []model.Question{
	// Basics
	{
		ID:       "q1",
		Text:     "Your Name (Optional)",
		Type:     model.TextQuestion,
		Category: Basics,
	},
	{
		ID:       "q2",
		Text:     "WhatsApp Number (For app updates & early access)",
		Type:     model.TextQuestion,
		Category: Basics,
	},
	{
		ID:       "q3",
		Text:     "Your College Name",
		Type:     model.TextQuestion,
		Category: Basics,
	},
	{
		ID:       "q4",
		Text:     "Your Year of Study",
		Type:     model.ChoiceQuestion,
		Options:  []string{"1st Year", "2nd Year", "3rd Year", "4th Year", "PG"},
		Category: Basics,
	},
	{
		ID:       "q5",
		Text:     "Your City",
		Type:     model.TextQuestion,
		Category: Basics,
	},

	// What you need
	{
		ID:       "q6",
		Text:     "Have you ever looked for services like room rentals, assignments, or part-time jobs online?",
		Type:     model.ChoiceQuestion,
		Options:  []string{"Yes", "No"},
		Category: Needs,
	},
	{
		ID:   "q7",
		Text: "Which of these do you usually look for or offer? (Select all that apply)",
		Type: model.ChoiceQuestion,
		Options: []string{
			"PG/Room Rentals",
			"Freelance Gigs (Design, Coding, etc.)",
			"Notes/Assignments",
			"Part-Time Jobs",
			"Event Help / Management",
			"Tutoring / Mentoring",
			"Other",
		},
		Multiple: true,
		Category: Needs,
	},
	{
		ID:   "q8",
		Text: "Where do you usually find these things now? (Choose what applies)",
		Type: model.ChoiceQuestion,
		Options: []string{
			"WhatsApp Groups/Status",
			"Instagram Pages",
			"Friends or Seniors",
			"JustDial / OLX",
			"I never find them easily",
			"Others",
		},
		Multiple: true,
		Category: Needs,
	},

	// The Tichi idea
	{
		ID:   "q9",
		Text: "Would you use this app to find stuff or offer your own services?",
		Type: model.ChoiceQuestion,
		Options: []string{
			"Yes! Sounds super useful",
			"Maybe, depending on how it works",
			"Nah, not really my thing",
		},
		Category: Tichi,
	},
	{
		ID:       "q10",
		Text:     "If you could post something useful or earn from it, what would you post? (Eg: I take notes, I can find rooms, I edit videos, I know tutors, etc.)",
		Type:     model.TextQuestion,
		Category: Tichi,
	},
	{
		ID:       "q11",
		Text:     "How much would you be okay paying to unlock a useful contact?",
		Type:     model.ChoiceQuestion,
		Options:  []string{"₹5", "₹10", "₹20", "Depends on how useful it is"},
		Category: Tichi,
	},

	// Be part of Tichi's journey
	{
		ID:       "q12",
		Text:     "Would you like early access to Tichi before the official launch?",
		Type:     model.ChoiceQuestion,
		Options:  []string{"Yes! Add me please", "No thanks"},
		Category: Journey,
	},
	{
		ID:       "q13",
		Text:     `Want to be part of our "Tichi Campus Circle" (get perks, sneak peeks & goodies)?`,
		Type:     model.ChoiceQuestion,
		Options:  []string{"Yes, sounds fun!", "Maybe", "Not right now"},
		Category: Journey,
	},
}

// Categories returns the categories in the order their sections are shown.
func Categories() []string {
	return append([]string(nil), categories...)
}

// Questions returns the whole catalog in display order.
func Questions() []model.Question {
	out := make([]model.Question, len(questions))
	for i, q := range questions {
		out[i] = clone(q)
	}
	return out
}

func ByCategory(category string) []model.Question {
	var out []model.Question
	for _, q := range questions {
		if q.Category == category {
			out = append(out, clone(q))
		}
	}
	return out
}

func Lookup(id string) (model.Question, bool) {
	for _, q := range questions {
		if q.ID == id {
			return clone(q), true
		}
	}
	return model.Question{}, false
}

func clone(q model.Question) model.Question {
	q.Options = append([]string(nil), q.Options...)
	return q
}
