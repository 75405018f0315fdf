package restaurant

import (
	"github.com/google/jsonschema-go/jsonschema"

	openairealtime "github.com/irtiza07/public-api/pkg/openai-realtime"
)

// Tool names understood by Handler.Call.
const (
	ToolMakeReservation      = "make_reservation"
	ToolGetPopularDishes     = "get_popular_dishes"
	ToolGetDishDetails       = "get_dish_details"
	ToolUpcomingAvailability = "get_upcoming_reservation_availability"
)

// Instructions is the front-desk persona given to the model.
const Instructions = "You are an agent who makes restaurant reservations. " +
	"To make a reservation, you need to collect the following required information: name of the party, date, time, and the size of the party. " +
	"All these fields are required. " +
	"You should talk like a restaurant front desk assistant gathering this information in a friendly, professional manner. " +
	"Before finalizing any reservation, you must restate all the reservation details to the user and ask for confirmation. " +
	"Only when the user confirms all details should you make the reservation by calling the make_reservation function. " +
	"You have a bunch of tools at your disposal. When the user asks you about popular dishes or what's good in the restaurant, only stick to details returned from function call. " +
	"Don't make up names of dishes, prices, or anything else that's not returned to you from the function."

type reservationArgs struct {
	PartyName  string `json:"party_name" jsonschema:"Name for the reservation"`
	Date       string `json:"date" jsonschema:"Date of the reservation (YYYY-MM-DD)"`
	Time       string `json:"time" jsonschema:"Time of the reservation (HH:MM)"`
	PartySize  int    `json:"party_size" jsonschema:"Number of people in the party"`
	ExtraNotes string `json:"extra_notes,omitempty" jsonschema:"Any extra notes for the reservation"`
}

type dishArgs struct {
	DishID int `json:"dish_id" jsonschema:"ID of the dish"`
}

type noArgs struct{}

var tools = []openairealtime.Tool{
	newTool[reservationArgs](ToolMakeReservation,
		"Make a restaurant reservation with the provided details"),
	newTool[noArgs](ToolGetPopularDishes,
		"Get a list of popular dishes with their IDs"),
	newTool[dishArgs](ToolGetDishDetails,
		"Get details of a dish by its ID, including ingredients, calories, prices, and user reviews"),
	newTool[noArgs](ToolUpcomingAvailability,
		"Check upcoming availability for reservations. Always call this function to confirm availability after the user has provided their preferred reservation date. True means available, False means not available for a given date."),
}

func newTool[T any](name, description string) openairealtime.Tool {
	schema, err := jsonschema.For[T](&jsonschema.ForOptions{})
	if err != nil {
		panic("restaurant: schema for " + name + ": " + err.Error())
	}
	return openairealtime.Tool{
		Type:        "function",
		Name:        name,
		Description: description,
		Parameters:  schema,
	}
}

// Tools returns the function manifest sent with session.update and
// response.create.
func Tools() []openairealtime.Tool {
	return append([]openairealtime.Tool(nil), tools...)
}
