package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lng": &graphql.Field{Type: graphql.Float},
		},
	})

	boundsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Bounds",
		Fields: graphql.Fields{
			"north": &graphql.Field{Type: graphql.Float},
			"south": &graphql.Field{Type: graphql.Float},
			"east":  &graphql.Field{Type: graphql.Float},
			"west":  &graphql.Field{Type: graphql.Float},
		},
	})

	cityType := graphql.NewObject(graphql.ObjectConfig{
		Name: "City",
		Fields: graphql.Fields{
			"key":             &graphql.Field{Type: graphql.String},
			"name":            &graphql.Field{Type: graphql.String},
			"bounds":          &graphql.Field{Type: boundsType},
			"center":          &graphql.Field{Type: geoPointType},
			"max_radius_km":   &graphql.Field{Type: graphql.Float},
			"transport_modes": &graphql.Field{Type: graphql.NewList(graphql.String)},
			"range_message":   &graphql.Field{Type: graphql.String},
			"radius_envelope": &graphql.Field{Type: boundsType},
		},
	})

	validationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ValidationResult",
		Fields: graphql.Fields{
			"is_valid": &graphql.Field{Type: graphql.Boolean},
			"message":  &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"cities": &graphql.Field{
				Type:        graphql.NewList(cityType),
				Description: "List all supported cities",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var out []CityView
					for _, c := range deps.Locations.Cities() {
						out = append(out, newCityView(c))
					}
					return out, nil
				},
			},
			"city": &graphql.Field{
				Type:        cityType,
				Description: "Get a city by key",
				Args: graphql.FieldConfigArgument{
					"key": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					c, err := deps.Locations.City(p.Args["key"].(string))
					if err != nil {
						return nil, err
					}
					return newCityView(c), nil
				},
			},
			"validateLocation": &graphql.Field{
				Type:        validationType,
				Description: "Check whether a location is a valid day-tour start for a city",
				Args: graphql.FieldConfigArgument{
					"city": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"lat":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lng":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					coords := []float64{p.Args["lat"].(float64), p.Args["lng"].(float64)}
					r := deps.Locations.Validate(p.Context, coords, p.Args["city"].(string))
					return map[string]interface{}{
						"is_valid": r.IsValid(),
						"message":  r.Message(),
					}, nil
				},
			},
			"rangeMessage": &graphql.Field{
				Type:        graphql.String,
				Description: "Guidance sentence describing the admissible area",
				Args: graphql.FieldConfigArgument{
					"city": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Locations.RangeMessage(p.Args["city"].(string)), nil
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
		// This would be a programming error in the schema definition
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
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
