package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/hurryup/express/internal/core/domain"
)

// buildSchema creates the read-only GraphQL query surface wired to our
// services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	lastLocationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "LastLocation",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lng": &graphql.Field{Type: graphql.Float},
			"ts":  &graphql.Field{Type: graphql.Float},
		},
	})

	agentContactType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AgentContact",
		Fields: graphql.Fields{
			"name":  &graphql.Field{Type: graphql.String},
			"phone": &graphql.Field{Type: graphql.String},
		},
	})

	bookingType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Booking",
		Fields: graphql.Fields{
			"bookingId":       &graphql.Field{Type: graphql.String},
			"uid":             &graphql.Field{Type: graphql.String},
			"status":          &graphql.Field{Type: graphql.String},
			"deliveryStatus":  &graphql.Field{Type: graphql.String},
			"pickupAddress":   &graphql.Field{Type: graphql.String},
			"deliveryAddress": &graphql.Field{Type: graphql.String},
			"parcelType":      &graphql.Field{Type: graphql.String},
			"parcelSize":      &graphql.Field{Type: graphql.String},
			"parcelWeight":    &graphql.Field{Type: graphql.Float},
			"deliveryCharge":  &graphql.Field{Type: graphql.Int},
			"totalCharge":     &graphql.Field{Type: graphql.Int},
			"lastLocation":    &graphql.Field{Type: lastLocationType},
		},
	})

	trackingType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Tracking",
		Fields: graphql.Fields{
			"bookingId":       &graphql.Field{Type: graphql.String},
			"status":          &graphql.Field{Type: graphql.String},
			"pickupAddress":   &graphql.Field{Type: graphql.String},
			"deliveryAddress": &graphql.Field{Type: graphql.String},
			"lastLocation":    &graphql.Field{Type: lastLocationType},
			"deliveryAgent":   &graphql.Field{Type: agentContactType},
		},
	})

	statsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "DeliveryStats",
		Fields: graphql.Fields{
			"total":     &graphql.Field{Type: graphql.Int},
			"delivered": &graphql.Field{Type: graphql.Int},
			"pending":   &graphql.Field{Type: graphql.Int},
			"inTransit": &graphql.Field{Type: graphql.Int},
			"failed":    &graphql.Field{Type: graphql.Int},
			"pickedUp":  &graphql.Field{Type: graphql.Int},
		},
	})

	reportType := graphql.NewObject(graphql.ObjectConfig{
		Name: "DeliveryReport",
		Fields: graphql.Fields{
			"stats":       &graphql.Field{Type: statsType},
			"successful":  &graphql.Field{Type: graphql.Int},
			"failed":      &graphql.Field{Type: graphql.Int},
			"successRate": &graphql.Field{Type: graphql.Float},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"booking": &graphql.Field{
				Type:        bookingType,
				Description: "Look up a booking by its public id",
				Args: graphql.FieldConfigArgument{
					"bookingId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					bookings, err := deps.Bookings.Find(p.Context, domain.BookingQuery{
						BookingID: p.Args["bookingId"].(string),
					})
					if err != nil {
						return nil, err
					}
					if len(bookings) == 0 {
						return nil, nil
					}
					return bookings[0], nil
				},
			},
			"bookings": &graphql.Field{
				Type:        graphql.NewList(bookingType),
				Description: "List bookings filtered by agent uid and/or status",
				Args: graphql.FieldConfigArgument{
					"agentUid": &graphql.ArgumentConfig{Type: graphql.String},
					"status":   &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q := domain.BookingQuery{}
					if v, ok := p.Args["agentUid"].(string); ok {
						q.AgentUID = v
					}
					if v, ok := p.Args["status"].(string); ok {
						q.Status = v
					}
					return deps.Bookings.Find(p.Context, q)
				},
			},
			"tracking": &graphql.Field{
				Type:        trackingType,
				Description: "Public tracking view of a booking",
				Args: graphql.FieldConfigArgument{
					"bookingId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Bookings.PublicTracking(p.Context, p.Args["bookingId"].(string))
				},
			},
			"deliveryStats": &graphql.Field{
				Type:        reportType,
				Description: "Per-status counts and success rate",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Analytics.DeliveryStats(p.Context, domain.DateRange{})
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// Programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
