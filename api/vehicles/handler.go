package vehicles

import (
	"encoding/json"
	"net/http"

	"github.com/nmonzon/carmind/core/maintenance"
	"github.com/nmonzon/carmind/core/model"
	"github.com/nmonzon/carmind/core/vehicle"
)

// stateResponse is the JSON shape of GET /api/vehicles.
type stateResponse struct {
	Vehicles   []model.Vehicle `json:"vehicles"`
	SelectedID string          `json:"selected_id,omitempty"`
	Status     vehicle.Status  `json:"status"`
	Error      string          `json:"error,omitempty"`
}

// NewHandler returns a read-only HTTP handler exposing the vehicle state via
// GET /api/vehicles and the computed alerts via GET /api/vehicles/alerts.
func NewHandler(store *vehicle.Store, records *maintenance.Repository) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/vehicles", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		st := store.State()
		resp := stateResponse{
			Vehicles:   st.Vehicles,
			SelectedID: st.SelectedID,
			Status:     st.Status,
			Error:      st.Err,
		}
		if resp.Vehicles == nil {
			resp.Vehicles = []model.Vehicle{}
		}
		writeJSON(w, resp)
	})

	mux.HandleFunc("/api/vehicles/alerts", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		st := store.State()
		alerts := []maintenance.Alert{}
		for _, v := range st.Vehicles {
			if id := r.URL.Query().Get("vehicle_id"); id != "" && v.ID != id {
				continue
			}
			va, err := records.Alerts(r.Context(), v.OwnerID, v)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			alerts = append(alerts, va...)
		}
		writeJSON(w, alerts)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
