package events

func validEventInput() EventInput {
	return EventInput{
		Title:       "GopherCon 2026",
		Description: "Three days of talks and workshops for Go developers.",
		Overview:    "The largest Go conference in Europe.",
		Image:       "https://images.example.com/gophercon.png",
		Venue:       "Berlin Congress Center",
		Location:    "Berlin, Germany",
		Date:        "2026-07-10",
		Time:        "09:30",
		Mode:        "offline",
		Audience:    "Go developers",
		Agenda:      []string{"Keynote", "Workshops", "Lightning talks"},
		Organizer:   "Gopher Events GmbH",
		Tags:        []string{"go", "conference"},
	}
}
