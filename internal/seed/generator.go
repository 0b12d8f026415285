package seed

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/ErlanBelekov/student-gifts/internal/domain"
)

const (
	maxPerStore = 3
	maxGifts    = 15
)

type store struct {
	Title    string
	Category string
}

var stores = []store{
	{Title: "ChickenMax", Category: "Food"},
	{Title: "BakeryBite", Category: "Food"},
	{Title: "PizzaWorld", Category: "Pizza"},
	{Title: "CoffeeCentral", Category: "Coffee"},
	{Title: "BarHub", Category: "Bars"},
}

var titles = []string{
	"Free Pizza Slice",
	"Buy 1 Get 1 Coffee",
	"Free Pastry",
	"Discount on Chicken Meals",
	"2-for-1 Cocktails",
	"Student Meal Deal",
	"Half Price Latte",
	"Free Dessert",
	"Happy Hour Special",
	"Free Topping Upgrade",
}

// Generator builds a randomized gift catalog over a fixed set of stores.
type Generator struct {
	faker *gofakeit.Faker
}

// NewGenerator returns a generator seeded with seed. Zero picks a random seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// Gifts returns between one gift per store and maxGifts gifts in random
// order. No store gets more than maxPerStore.
func (g *Generator) Gifts() []domain.Gift {
	perStore := make([]int, len(stores))
	total := 0
	for i := range stores {
		perStore[i] = 1
		total++
	}

	target := g.faker.IntRange(len(stores), maxGifts)
	for total < target {
		i := g.faker.IntRange(0, len(stores)-1)
		if perStore[i] >= maxPerStore {
			continue
		}
		perStore[i]++
		total++
	}

	gifts := make([]domain.Gift, 0, total)
	for i, s := range stores {
		for range perStore[i] {
			gifts = append(gifts, g.gift(s))
		}
	}
	g.faker.ShuffleAnySlice(gifts)
	return gifts
}

func (g *Generator) gift(s store) domain.Gift {
	title := g.faker.RandomString(titles)
	slug := strings.ToLower(s.Title)

	return domain.Gift{
		Title:        title,
		Category:     s.Category,
		Description:  g.description(s, title),
		Terms:        g.terms(),
		BrandTitle:   s.Title,
		BrandLogoURL: "/logos/" + slug + ".png",
		ImageURL:     fmt.Sprintf("/images/%s-%d.jpg", slug, g.faker.IntRange(1, 3)),
		Type:         g.faker.RandomString([]string{domain.TypeStudentDiscount, domain.TypeFreebie, domain.TypeGeneralSale}),
		Channel:      g.faker.RandomString([]string{domain.ChannelOnline, domain.ChannelInstore}),
		Status:       g.faker.RandomString([]string{domain.StatusNewIn, domain.StatusEndingSoon}),
	}
}

func (g *Generator) description(s store, title string) string {
	var what string
	switch s.Category {
	case "Pizza":
		what = "a hot slice fresh from the oven"
	case "Coffee":
		what = fmt.Sprintf("a %s %s", g.faker.RandomString([]string{"smooth", "rich", "creamy"}), g.faker.RandomString([]string{"flat white", "latte", "cappuccino"}))
	case "Bars":
		what = "drinks with friends after lectures"
	default:
		what = fmt.Sprintf("%s food between classes", g.faker.RandomString([]string{"tasty", "filling", "quick"}))
	}
	return fmt.Sprintf("%s at %s. Show your student ID and enjoy %s.", title, s.Title, what)
}

func (g *Generator) terms() string {
	days := g.faker.IntRange(7, 60)
	limit := g.faker.RandomString([]string{"One per student per day.", "One per student per visit.", "While stocks last."})
	return fmt.Sprintf("Valid for %d days with a student ID. %s Cannot be combined with other offers.", days, limit)
}
