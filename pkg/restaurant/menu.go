package restaurant

// Dish is one entry of the popular-dishes list.
type Dish struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// DishDetails is what get_dish_details returns for a known dish.
type DishDetails struct {
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
	Calories    int      `json:"calories"`
	Price       float64  `json:"price"`
	Reviews     []Review `json:"reviews"`
}

type Review struct {
	User   string `json:"user"`
	Review string `json:"review"`
}

var popularDishes = []Dish{
	{1, "Spaghetti Carbonara"},
	{2, "Margherita Pizza"},
	{3, "Caesar Salad"},
	{4, "Grilled Salmon"},
	{5, "Tiramisu"},
	{6, "Ribeye Steak"},
	{7, "Panna Cotta"},
	{8, "Mushroom Risotto"},
	{9, "Bruschetta"},
	{10, "Caprese Salad"},
}

var dishDetails = map[int]DishDetails{
	1: {
		Name:        "Spaghetti Carbonara",
		Ingredients: []string{"spaghetti", "eggs", "parmesan cheese", "pancetta", "black pepper"},
		Calories:    600,
		Price:       12.99,
		Reviews: []Review{
			{"Alice", "Delicious and creamy!"},
			{"Bob", "A bit too salty for my taste."},
			{"Charlie", "Perfectly cooked pasta!"},
			{"David", "My favorite dish here!"},
			{"Eve", "Authentic Italian flavor."},
		},
	},
	2: {
		Name:        "Margherita Pizza",
		Ingredients: []string{"pizza dough", "tomato sauce", "mozzarella cheese", "basil"},
		Calories:    800,
		Price:       10.99,
		Reviews: []Review{
			{"Frank", "Classic and simple, love it!"},
			{"Grace", "The crust was a bit soggy."},
			{"Heidi", "Fresh ingredients make a difference."},
			{"Ivan", "Best pizza in town!"},
			{"Judy", "A bit pricey for what you get."},
		},
	},
	3: {
		Name:        "Caesar Salad",
		Ingredients: []string{"romaine lettuce", "croutons", "parmesan cheese", "Caesar dressing"},
		Calories:    350,
		Price:       8.99,
		Reviews: []Review{
			{"Karl", "Crisp and refreshing!"},
			{"Laura", "Too much dressing for my liking."},
			{"Mallory", "Great as a side dish."},
			{"Nina", "Perfectly seasoned."},
			{"Oscar", "I could eat this every day!"},
		},
	},
	4: {
		Name:        "Grilled Salmon",
		Ingredients: []string{"salmon fillet", "olive oil", "lemon", "herbs"},
		Calories:    450,
		Price:       18.99,
		Reviews: []Review{
			{"Peggy", "Cooked to perfection!"},
			{"Quentin", "A bit dry for my taste."},
			{"Rupert", "Flavors were amazing."},
			{"Sybil", "Healthy and delicious."},
			{"Trent", "I love the lemon zest."},
		},
	},
	5: {
		Name:        "Tiramisu",
		Ingredients: []string{"ladyfingers", "mascarpone cheese", "coffee", "cocoa powder"},
		Calories:    400,
		Price:       6.99,
		Reviews: []Review{
			{"Uma", "The best dessert ever!"},
			{"Victor", "Too sweet for my liking."},
			{"Walter", "Perfect end to a meal."},
			{"Xena", "I could eat this all day."},
			{"Yara", "Authentic Italian dessert."},
		},
	},
	6: {
		Name:        "Ribeye Steak",
		Ingredients: []string{"ribeye steak", "salt", "pepper", "butter"},
		Calories:    700,
		Price:       24.99,
		Reviews: []Review{
			{"Zara", "Juicy and tender!"},
			{"Aaron", "Cooked exactly as I ordered."},
			{"Bella", "A bit too fatty for my taste."},
			{"Cody", "Best steak I've ever had!"},
			{"Diana", "Perfectly seasoned."},
		},
	},
	7: {
		Name:        "Panna Cotta",
		Ingredients: []string{"cream", "sugar", "gelatin", "vanilla"},
		Calories:    300,
		Price:       5.99,
		Reviews: []Review{
			{"Ethan", "Silky smooth and delicious!"},
			{"Fiona", "A bit too sweet for my liking."},
			{"George", "Perfectly creamy."},
			{"Hannah", "Great texture."},
			{"Ian", "I love the vanilla flavor."},
		},
	},
	8: {
		Name:        "Mushroom Risotto",
		Ingredients: []string{"arborio rice", "mushrooms", "parmesan cheese", "broth"},
		Calories:    500,
		Price:       14.99,
		Reviews: []Review{
			{"Jack", "Creamy and flavorful!"},
			{"Kathy", "A bit too rich for my taste."},
			{"Leo", "Perfectly cooked rice."},
			{"Mia", "Great comfort food."},
			{"Nate", "I love the mushroom flavor."},
		},
	},
	9: {
		Name:        "Bruschetta",
		Ingredients: []string{"bread", "tomatoes", "basil", "olive oil"},
		Calories:    250,
		Price:       7.99,
		Reviews: []Review{
			{"Olivia", "Fresh and tasty!"},
			{"Paul", "A bit too garlicky for my taste."},
			{"Quinn", "Perfect appetizer."},
			{"Rachel", "I love the fresh tomatoes."},
			{"Sam", "Great with a glass of wine."},
		},
	},
	10: {
		Name:        "Caprese Salad",
		Ingredients: []string{"mozzarella cheese", "tomatoes", "basil", "olive oil"},
		Calories:    300,
		Price:       9.99,
		Reviews: []Review{
			{"Tina", "Fresh and delicious!"},
			{"Ursula", "A bit too oily for my taste."},
			{"Victor", "Perfectly balanced flavors."},
			{"Wendy", "Great as a side dish."},
			{"Xander", "I love the fresh basil."},
		},
	},
}

// availability maps a date (YYYY-MM-DD) to whether tables are free.
var availability = map[string]bool{
	"2025-05-15": true,
	"2025-05-16": true,
	"2025-05-17": false,
	"2025-05-18": true,
	"2025-05-19": true,
	"2025-05-20": true,
	"2025-05-21": true,
	"2025-05-22": true,
	"2025-05-23": true,
	"2025-05-24": true,
	"2025-05-25": true,
	"2025-05-26": false,
	"2025-05-27": true,
	"2025-05-28": false,
	"2025-05-29": true,
	"2025-05-30": true,
	"2025-05-31": false,
}

// PopularDishes returns a copy of the menu highlights.
func PopularDishes() []Dish {
	return append([]Dish(nil), popularDishes...)
}

// LookupDish returns the details of dish id.
func LookupDish(id int) (DishDetails, bool) {
	d, ok := dishDetails[id]
	return d, ok
}

// Availability returns a copy of the reservation calendar.
func Availability() map[string]bool {
	out := make(map[string]bool, len(availability))
	for k, v := range availability {
		out[k] = v
	}
	return out
}
