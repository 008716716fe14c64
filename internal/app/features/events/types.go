package events

import (
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/eventstatus"
	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/app/system/inputval"
	"github.com/dalemusser/clubhub/internal/app/system/listview"
	"github.com/dalemusser/clubhub/internal/domain/models"
)

// eventInput is the create/update request body.
type eventInput struct {
	Name  string   `json:"event_name" validate:"required"`
	Date  string   `json:"event_date" validate:"required"`
	Venue string   `json:"venue"`
	Time  string   `json:"time"`
	Years []string `json:"year"`
}

func (in eventInput) model(loc *time.Location) (models.Event, error) {
	date, err := inputval.ParseDate("event_date", in.Date, loc)
	if err != nil {
		return models.Event{}, err
	}
	name := htmlsanitize.PlainText(in.Name)
	if name == "" {
		return models.Event{}, &inputval.Error{Message: "event_name is required"}
	}
	years := htmlsanitize.PlainTextAll(in.Years)
	if years == nil {
		years = []string{}
	}
	return models.Event{
		Name:  name,
		Date:  date,
		Venue: htmlsanitize.PlainText(in.Venue),
		Time:  htmlsanitize.PlainText(in.Time),
		Years: years,
	}, nil
}

// eventView is an event with its status derived for the current day.
type eventView struct {
	models.Event
	Status eventstatus.Status `json:"status"`
}

func viewOf(ev models.Event, now time.Time) eventView {
	return eventView{Event: ev, Status: eventstatus.Classify(now, ev.Date)}
}

func viewsOf(evs []models.Event, now time.Time) []eventView {
	out := make([]eventView, len(evs))
	for i, ev := range evs {
		out[i] = viewOf(ev, now)
	}
	return out
}

// upcomingItem is one entry of the upcoming events feed.
type upcomingItem struct {
	Date  string `json:"date"`
	Title string `json:"title"`
}

// viewResponse is one page of the filtered event list.
type viewResponse struct {
	Items    []eventView    `json:"items"`
	Total    int            `json:"total"`
	Pages    int            `json:"pages"`
	HasPrev  bool           `json:"has_prev"`
	HasNext  bool           `json:"has_next"`
	State    string         `json:"state"`
	Current  listview.State `json:"view"`
	Statuses []string       `json:"statuses"`
}
