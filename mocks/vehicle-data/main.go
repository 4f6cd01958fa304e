// Command vehicle-data is a deterministic stand-in for the upstream
// vehicle-data provider, for local development and demos. Responses are
// derived from the request parameters so repeated calls agree.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"hash/fnv"
	"log"
	"net/http"
	"strings"
	"time"
)

func main() {
	addr := flag.String("addr", ":9090", "listen address")
	flag.Parse()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /authenticate", handleAuthenticate)
	mux.HandleFunc("GET /vehicles", handleVehicles)
	mux.HandleFunc("GET /valuations/trended", handleTrended)
	mux.HandleFunc("POST /vehicle-metrics", handleMetrics)
	mux.HandleFunc("GET /competitors/{id}", handleCompetitors)

	log.Printf("mock vehicle-data provider listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, mux))
}

func handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Key    string `json:"key"`
		Secret string `json:"secret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Key == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	writeJSON(w, map[string]string{
		"access_token": fmt.Sprintf("mock-token-%d", seed(creds.Key)),
	})
}

func handleVehicles(w http.ResponseWriter, r *http.Request) {
	if !authorized(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	reg := strings.ToUpper(r.URL.Query().Get("registration"))
	if reg == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	// Registrations starting with "ZZ" simulate unknown vehicles.
	if strings.HasPrefix(reg, "ZZ") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	s := seed(reg)
	retail := 8000 + int64(s%20000)
	body := map[string]any{
		"vehicle": map[string]any{
			"registration":          reg,
			"derivativeId":          fmt.Sprintf("deriv-%d", s%1000),
			"make":                  pick(s, "Volkswagen", "Ford", "Toyota", "BMW"),
			"model":                 pick(s>>2, "Golf", "Focus", "Corolla", "3 Series"),
			"firstRegistrationDate": fmt.Sprintf("20%02d-0%d-15", 18+s%7, 1+s%9),
		},
		"valuations": map[string]any{
			"retail":       gbp(retail),
			"trade":        gbp(retail * 87 / 100),
			"partExchange": gbp(retail * 84 / 100),
		},
		"links": map[string]any{
			"competitors": map[string]string{"href": "/competitors/" + reg},
		},
	}
	if r.URL.Query().Get("fullVehicleCheck") == "true" {
		body["history"] = map[string]any{
			"stolen":         s%17 == 0,
			"scrapped":       false,
			"imported":       s%5 == 0,
			"exported":       false,
			"previousOwners": int(s % 4),
			"keeperChanges":  int(s % 6),
		}
	}
	writeJSON(w, body)
}

func handleTrended(w http.ResponseWriter, r *http.Request) {
	if !authorized(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	derivative := r.URL.Query().Get("derivativeId")
	if derivative == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s := seed(derivative)
	// Roughly a third of derivatives have no series, to exercise fallback.
	if s%3 == 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	retail := 9000 + int64(s%15000)
	step := int64(s%200) - 100
	points := make([]map[string]any, 0, 6)
	now := time.Now()
	for i := 5; i >= 0; i-- {
		value := retail - step*int64(i)
		points = append(points, map[string]any{
			"date":         now.AddDate(0, -i, 0).Format("2006-01-02"),
			"retail":       gbp(value),
			"trade":        gbp(value * 87 / 100),
			"partExchange": gbp(value * 84 / 100),
		})
	}
	writeJSON(w, map[string]any{"valuations": points})
}

func handleMetrics(w http.ResponseWriter, r *http.Request) {
	if !authorized(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if r.URL.Query().Get("advertiserId") == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var body struct {
		Vehicle struct {
			DerivativeID string `json:"derivativeId"`
		} `json:"vehicle"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Vehicle.DerivativeID == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s := seed(body.Vehicle.DerivativeID)
	writeJSON(w, map[string]any{
		"retailRating":       float64(40 + s%60),
		"daysToSell":         float64(14 + s%50),
		"demandIndex":        float64(s%100) / 100,
		"supplyIndex":        float64(s%73) / 100,
		"locationAdjustment": float64(int64(s%11)-5) / 100,
		"nationalAverage":    gbp(8500 + int64(s%18000)),
	})
}

func handleCompetitors(w http.ResponseWriter, r *http.Request) {
	if !authorized(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	s := seed(r.PathValue("id"))
	count := int(s%4) + 2
	competitors := make([]map[string]any, 0, count)
	for i := 0; i < count; i++ {
		distance := int(s>>i)%40 + 2
		competitors = append(competitors, map[string]any{
			"make":          pick(s+uint64(i), "Volkswagen", "Ford", "Toyota", "BMW"),
			"model":         pick((s+uint64(i))>>2, "Golf", "Focus", "Corolla", "3 Series"),
			"mileage":       20000 + int((s>>i)%60000),
			"price":         gbp(8000 + int64((s>>i)%20000)),
			"distanceMiles": distance,
		})
	}
	writeJSON(w, map[string]any{
		"competitors":  competitors,
		"totalResults": count * 3,
	})
}

func authorized(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Authorization"), "Bearer mock-token-")
}

func seed(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

func pick(s uint64, options ...string) string {
	return options[s%uint64(len(options))]
}

func gbp(amount int64) map[string]int64 {
	return map[string]int64{"amountGBP": amount}
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}
