package config

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed events.toml
var defaultEvents []byte

// LabFilter selects which allocations count towards the lab view of an event.
// An empty Slots list matches every slot.
type LabFilter struct {
	JudgePrefix string   `toml:"judge_prefix"`
	Slots       []string `toml:"slots"`
}

type Event struct {
	Name             string    `toml:"name"`
	Title            string    `toml:"title"`
	Code             string    `toml:"code"`
	TeamSize         int       `toml:"team_size"`
	AutoCreateTicket bool      `toml:"auto_create_ticket"`
	TechfiestaGroup  string    `toml:"techfiesta_group"`
	WhatsappLink     string    `toml:"whatsapp_link"`
	JudgeGroupLink   string    `toml:"judge_group_link"`
	JudgingSlots     []string  `toml:"judging_slots"`
	LabFilter        LabFilter `toml:"lab_filter"`
}

// JudgeNamespace is the LIKE pattern matching every judge id minted for the event.
func (e *Event) JudgeNamespace() string {
	return e.Code + "-%"
}

// SlotLabels converts slot codes to their human readable labels, sorted by slot number.
func (e *Event) SlotLabels(slots []string) []string {
	numbers := make([]int, 0, len(slots))
	for _, slot := range slots {
		n, err := strconv.Atoi(strings.TrimSpace(slot))
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	labels := make([]string, 0, len(numbers))
	for _, n := range numbers {
		if n >= 0 && n < len(e.JudgingSlots) {
			labels = append(labels, e.JudgingSlots[n])
		} else {
			labels = append(labels, strconv.Itoa(n))
		}
	}
	return labels
}

type PaymentSentinels struct {
	HomeInstitution string `toml:"home_institution"`
	International   string `toml:"international"`
	Techfiesta      string `toml:"techfiesta"`
}

type Events struct {
	Edition        string            `toml:"edition"`
	TentativeDates string            `toml:"tentative_dates"`
	Payment        PaymentSentinels  `toml:"payment"`
	Institution    map[string]string `toml:"institution"`
	Synopsis       struct {
		Domains []string `toml:"domains"`
	} `toml:"synopsis"`
	Events []*Event `toml:"events"`

	byName map[string]*Event
}

func (e *Events) Get(name string) (*Event, bool) {
	event, ok := e.byName[strings.ToLower(name)]
	return event, ok
}

func (e *Events) Names() []string {
	names := make([]string, 0, len(e.Events))
	for _, event := range e.Events {
		names = append(names, event.Name)
	}
	return names
}

// LoadEvents reads the static event data. An empty path loads the embedded defaults.
func LoadEvents(path string) (*Events, error) {
	data := defaultEvents
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}
	return ParseEvents(data)
}

func ParseEvents(data []byte) (*Events, error) {
	events := &Events{}
	if _, err := toml.Decode(string(data), events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	events.byName = make(map[string]*Event, len(events.Events))
	for _, event := range events.Events {
		if event.Name == "" || event.Code == "" {
			return nil, fmt.Errorf("event entries need a name and a code")
		}
		if event.TeamSize <= 0 {
			return nil, fmt.Errorf("event %s: team_size must be positive", event.Name)
		}
		event.Name = strings.ToLower(event.Name)
		if event.Title == "" {
			event.Title = strings.ToUpper(event.Name[:1]) + event.Name[1:]
		}
		events.byName[event.Name] = event
	}
	return events, nil
}
