// Package restaurant implements the reservation agent's tools: a static
// menu, an availability calendar and an in-memory reservation book.
package restaurant

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/kaptinlin/jsonrepair"
)

// Handler dispatches model function calls. It never fails: problems are
// reported to the model as JSON results.
type Handler struct {
	book *Book
}

func NewHandler(book *Book) *Handler {
	return &Handler{book: book}
}

// Book returns the reservation book the handler writes to.
func (h *Handler) Book() *Book { return h.book }

type result struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ReservationID int    `json:"reservation_id,omitempty"`
}

// Call runs tool name with JSON arguments and returns the JSON output.
func (h *Handler) Call(name, arguments string) string {
	var out any
	switch name {
	case ToolMakeReservation:
		var args reservationArgs
		if err := decodeArgs(arguments, &args); err != nil {
			out = result{Message: "Invalid arguments: " + err.Error()}
			break
		}
		out = h.makeReservation(args)
	case ToolGetPopularDishes:
		out = PopularDishes()
	case ToolGetDishDetails:
		var args dishArgs
		decodeArgs(arguments, &args)
		out = dishDetailsResult(args.DishID)
	case ToolUpcomingAvailability:
		out = Availability()
	default:
		out = result{Message: "Unknown function: " + name}
	}

	data, err := json.Marshal(out)
	if err != nil {
		slog.Error("restaurant: encode tool result", "tool", name, "error", err)
		return `{"success":false,"message":"internal error"}`
	}
	return string(data)
}

func (h *Handler) makeReservation(args reservationArgs) result {
	if args.PartyName == "" || args.Date == "" || args.Time == "" || args.PartySize <= 0 {
		return result{Message: "All fields are required for a reservation."}
	}
	r := h.book.Add(Reservation{
		PartyName:  args.PartyName,
		Date:       args.Date,
		Time:       args.Time,
		PartySize:  args.PartySize,
		ExtraNotes: args.ExtraNotes,
	})
	slog.Info("restaurant: reservation made", "id", r.ID, "party", r.PartyName, "date", r.Date, "time", r.Time, "size", r.PartySize)
	return result{
		Success:       true,
		Message:       fmt.Sprintf("Reservation confirmed for %s on %s at %s for %d people.", r.PartyName, r.Date, r.Time, r.PartySize),
		ReservationID: r.ID,
	}
}

func dishDetailsResult(id int) any {
	if d, ok := LookupDish(id); ok {
		return d
	}
	return map[string]string{"error": "Dish not found"}
}

// decodeArgs unmarshals arguments, repairing syntactically broken JSON
// first. Empty input decodes as {}.
func decodeArgs(arguments string, v any) error {
	if arguments == "" {
		return nil
	}
	err := json.Unmarshal([]byte(arguments), v)
	if _, ok := err.(*json.SyntaxError); !ok {
		return err
	}
	fixed, rerr := jsonrepair.JSONRepair(arguments)
	if rerr != nil {
		return err
	}
	return json.Unmarshal([]byte(fixed), v)
}
