package restaurant

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
)

func TestMakeReservation(t *testing.T) {
	h := NewHandler(NewBook())

	got := h.Call(ToolMakeReservation, `{"party_name":"Ada","date":"2025-05-20","time":"19:00","party_size":4}`)
	want := `{"success":true,"message":"Reservation confirmed for Ada on 2025-05-20 at 19:00 for 4 people.","reservation_id":1}`
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}

	got = h.Call(ToolMakeReservation, `{"party_name":"Bo","date":"2025-05-21","time":"18:30","party_size":2,"extra_notes":"window"}`)
	var res result
	if err := json.Unmarshal([]byte(got), &res); err != nil {
		t.Fatal(err)
	}
	if !res.Success || res.ReservationID != 2 {
		t.Fatalf("second reservation = %s", got)
	}
	if list := h.Book().List(); len(list) != 2 || list[1].ExtraNotes != "window" {
		t.Fatalf("book = %+v", list)
	}
}

func TestMakeReservationMissingField(t *testing.T) {
	const failure = `{"success":false,"message":"All fields are required for a reservation."}`
	full := map[string]any{"party_name": "Ada", "date": "2025-05-20", "time": "19:00", "party_size": 4}

	for _, missing := range []string{"party_name", "date", "time", "party_size"} {
		t.Run(missing, func(t *testing.T) {
			args := map[string]any{}
			for k, v := range full {
				if k != missing {
					args[k] = v
				}
			}
			data, _ := json.Marshal(args)
			h := NewHandler(NewBook())
			if got := h.Call(ToolMakeReservation, string(data)); got != failure {
				t.Errorf("got %s", got)
			}
			if n := len(h.Book().List()); n != 0 {
				t.Errorf("book has %d entries", n)
			}
		})
	}
}

func TestReservationIDsUnderConcurrency(t *testing.T) {
	h := NewHandler(NewBook())
	const n = 50

	ids := make(chan int, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out := h.Call(ToolMakeReservation, fmt.Sprintf(`{"party_name":"p%d","date":"2025-05-20","time":"19:00","party_size":2}`, i))
			var res result
			json.Unmarshal([]byte(out), &res)
			ids <- res.ReservationID
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int]bool{}
	for id := range ids {
		if id < 1 || id > n || seen[id] {
			t.Fatalf("bad or duplicate id %d", id)
		}
		seen[id] = true
	}
	for i, r := range h.Book().List() {
		if r.ID != i+1 {
			t.Fatalf("book[%d].ID = %d", i, r.ID)
		}
	}
}

func TestGetPopularDishes(t *testing.T) {
	var dishes []Dish
	if err := json.Unmarshal([]byte(NewHandler(NewBook()).Call(ToolGetPopularDishes, "")), &dishes); err != nil {
		t.Fatal(err)
	}
	if len(dishes) != 10 || dishes[0] != (Dish{1, "Spaghetti Carbonara"}) || dishes[9] != (Dish{10, "Caprese Salad"}) {
		t.Errorf("dishes = %+v", dishes)
	}
}

func TestGetDishDetails(t *testing.T) {
	h := NewHandler(NewBook())
	tests := []struct {
		args, want string
	}{
		{`{"dish_id": 11}`, `{"error":"Dish not found"}`},
		{`{"dish_id": 0}`, `{"error":"Dish not found"}`},
		{`{}`, `{"error":"Dish not found"}`},
		{`{"dish_id": "x"}`, `{"error":"Dish not found"}`},
	}
	for _, tt := range tests {
		if got := h.Call(ToolGetDishDetails, tt.args); got != tt.want {
			t.Errorf("Call(%s) = %s, want %s", tt.args, got, tt.want)
		}
	}

	var d DishDetails
	if err := json.Unmarshal([]byte(h.Call(ToolGetDishDetails, `{"dish_id": 4}`)), &d); err != nil {
		t.Fatal(err)
	}
	if d.Name != "Grilled Salmon" || d.Price != 18.99 || d.Calories != 450 || len(d.Reviews) != 5 {
		t.Errorf("details = %+v", d)
	}
}

func TestAvailability(t *testing.T) {
	var cal map[string]bool
	if err := json.Unmarshal([]byte(NewHandler(NewBook()).Call(ToolUpcomingAvailability, "{}")), &cal); err != nil {
		t.Fatal(err)
	}
	if len(cal) != 17 {
		t.Fatalf("calendar has %d days", len(cal))
	}
	for _, day := range []string{"2025-05-17", "2025-05-26", "2025-05-28", "2025-05-31"} {
		if cal[day] {
			t.Errorf("%s should be unavailable", day)
		}
	}
	if !cal["2025-05-15"] {
		t.Error("2025-05-15 should be available")
	}
}

func TestUnknownFunction(t *testing.T) {
	got := NewHandler(NewBook()).Call("order_pizza", "{}")
	if got != `{"success":false,"message":"Unknown function: order_pizza"}` {
		t.Errorf("got %s", got)
	}
}

func TestRepairsArguments(t *testing.T) {
	h := NewHandler(NewBook())
	// trailing comma and single quotes
	got := h.Call(ToolMakeReservation, `{'party_name':'Ada','date':'2025-05-20','time':'19:00','party_size':4,}`)
	var res result
	if err := json.Unmarshal([]byte(got), &res); err != nil || !res.Success {
		t.Fatalf("repaired call = %s", got)
	}

	got = h.Call(ToolMakeReservation, `{"party_size":"many"}`)
	if err := json.Unmarshal([]byte(got), &res); err != nil || res.Success {
		t.Fatalf("bad types should fail: %s", got)
	}
}

func TestToolsManifest(t *testing.T) {
	ts := Tools()
	if len(ts) != 4 {
		t.Fatalf("got %d tools", len(ts))
	}
	data, err := json.Marshal(ts[0].Parameters)
	if err != nil {
		t.Fatal(err)
	}
	var schema struct {
		Type       string                    `json:"type"`
		Properties map[string]map[string]any `json:"properties"`
		Required   []string                  `json:"required"`
	}
	if err := json.Unmarshal(data, &schema); err != nil {
		t.Fatal(err)
	}
	if ts[0].Name != ToolMakeReservation || schema.Type != "object" {
		t.Fatalf("tool 0 = %s %s", ts[0].Name, data)
	}
	if schema.Properties["party_size"]["type"] != "integer" {
		t.Errorf("party_size schema = %v", schema.Properties["party_size"])
	}
	if schema.Properties["date"]["description"] != "Date of the reservation (YYYY-MM-DD)" {
		t.Errorf("date schema = %v", schema.Properties["date"])
	}
	required := map[string]bool{}
	for _, r := range schema.Required {
		required[r] = true
	}
	for _, f := range []string{"party_name", "date", "time", "party_size"} {
		if !required[f] {
			t.Errorf("%s not required", f)
		}
	}
	if required["extra_notes"] {
		t.Error("extra_notes should be optional")
	}
}
