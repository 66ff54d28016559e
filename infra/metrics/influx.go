package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/pdptw/core/metrics"
	"github.com/kilianp07/pdptw/infra/logger"
)

// InfluxSink writes solver events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordSolve writes one solve_event point.
func (s *InfluxSink) RecordSolve(ev coremetrics.SolveEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("solve_event").
		AddTag("solver", ev.Solver).
		AddTag("outcome", ev.Outcome).
		AddField("vehicles", ev.Vehicles).
		AddField("parcels", ev.Parcels).
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordRouteStats writes one route_stats point and one vehicle_route point
// per vehicle.
func (s *InfluxSink) RecordRouteStats(ev coremetrics.RouteStatsEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	points := []*write.Point{
		write.NewPointWithMeasurement("route_stats").
			AddTag("solver", ev.Solver).
			AddTag("valid", strconv.FormatBool(ev.Valid)).
			AddField("sim_time", ev.SimTime).
			AddField("cost", round3(ev.Cost)).
			AddField("distance", round3(ev.TotalDistance)).
			AddField("travel_time", ev.TotalTravelTime).
			AddField("tardiness", ev.Tardiness).
			AddField("overtime", ev.Overtime).
			SetTime(ev.Time),
	}
	for _, v := range ev.Vehicles {
		points = append(points, write.NewPointWithMeasurement("vehicle_route").
			AddTag("solver", ev.Solver).
			AddTag("vehicle", strconv.Itoa(v.Vehicle)).
			AddField("parcels", v.Parcels).
			AddField("distance", round3(v.Distance)).
			AddField("travel_time", v.TravelTime).
			AddField("tardiness", v.Tardiness).
			AddField("overtime", v.Overtime).
			SetTime(ev.Time))
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
