package espn

type scoreboardEnvelope struct {
	Events []eventPayload `json:"events"`
}

type eventPayload struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Date         string               `json:"date"`
	Competitions []competitionPayload `json:"competitions"`
	Status       statusPayload        `json:"status"`
}

type competitionPayload struct {
	Venue       venuePayload        `json:"venue"`
	Type        competitionType     `json:"type"`
	Competitors []competitorPayload `json:"competitors"`
	Status      statusPayload       `json:"status"`
}

type competitionType struct {
	Text string `json:"text"`
}

type venuePayload struct {
	FullName string       `json:"fullName"`
	Address  venueAddress `json:"address"`
}

type venueAddress struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

type competitorPayload struct {
	Winner  bool           `json:"winner"`
	Athlete athletePayload `json:"athlete"`
}

type athletePayload struct {
	DisplayName string `json:"displayName"`
}

type statusPayload struct {
	Type statusType `json:"type"`
}

type statusType struct {
	Completed bool   `json:"completed"`
	Detail    string `json:"detail"`
}
