// Package alerts publishes out-of-service stations as a GTFS-realtime alerts feed
package alerts

import (
	"fmt"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/randytsao24/bizi/internal/models"
)

const feedLanguage = "es"

// ServiceAlert is the JSON view of one feed entity
type ServiceAlert struct {
	ID          string `json:"id"`
	StationID   string `json:"station_id"`
	Header      string `json:"header"`
	Description string `json:"description"`
}

// Build creates a full-dataset feed with one alert per non-operative station
func Build(stations []models.Station, now time.Time) *gtfs.FeedMessage {
	feed := &gtfs.FeedMessage{
		Header: &gtfs.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Incrementality:      gtfs.FeedHeader_FULL_DATASET.Enum(),
			Timestamp:           proto.Uint64(uint64(now.Unix())),
		},
	}

	for _, s := range stations {
		if s.IsOperative() {
			continue
		}
		feed.Entity = append(feed.Entity, &gtfs.FeedEntity{
			Id: proto.String("station-" + s.ID),
			Alert: &gtfs.Alert{
				InformedEntity: []*gtfs.EntitySelector{
					{StopId: proto.String(s.ID)},
				},
				Cause:           gtfs.Alert_TECHNICAL_PROBLEM.Enum(),
				Effect:          gtfs.Alert_NO_SERVICE.Enum(),
				HeaderText:      translated("Estación fuera de servicio: " + s.Title),
				DescriptionText: translated(fmt.Sprintf("Estado %s. Última actualización %s.", s.Estado, s.FormattedLastUpdated())),
			},
		})
	}

	return feed
}

// Marshal encodes the feed as protobuf
func Marshal(feed *gtfs.FeedMessage) ([]byte, error) {
	data, err := proto.Marshal(feed)
	if err != nil {
		return nil, fmt.Errorf("encoding alerts feed: %w", err)
	}
	return data, nil
}

// Summarize converts feed entities to their JSON view
func Summarize(feed *gtfs.FeedMessage) []ServiceAlert {
	alerts := make([]ServiceAlert, 0, len(feed.GetEntity()))
	for _, entity := range feed.GetEntity() {
		alert := entity.GetAlert()
		if alert == nil {
			continue
		}

		var stationID string
		if informed := alert.GetInformedEntity(); len(informed) > 0 {
			stationID = informed[0].GetStopId()
		}

		alerts = append(alerts, ServiceAlert{
			ID:          entity.GetId(),
			StationID:   stationID,
			Header:      translatedText(alert.GetHeaderText()),
			Description: translatedText(alert.GetDescriptionText()),
		})
	}
	return alerts
}

func translated(text string) *gtfs.TranslatedString {
	return &gtfs.TranslatedString{
		Translation: []*gtfs.TranslatedString_Translation{
			{Text: proto.String(text), Language: proto.String(feedLanguage)},
		},
	}
}

func translatedText(ts *gtfs.TranslatedString) string {
	if ts == nil {
		return ""
	}
	for _, t := range ts.GetTranslation() {
		if t.GetLanguage() == feedLanguage || t.GetLanguage() == "" {
			return t.GetText()
		}
	}
	if len(ts.GetTranslation()) > 0 {
		return ts.GetTranslation()[0].GetText()
	}
	return ""
}
