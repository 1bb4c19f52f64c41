package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/cctvlocator/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to the search service.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	cameraType := graphql.NewObject(graphql.ObjectConfig{
		Name: "NearbyCamera",
		Fields: graphql.Fields{
			"id":                &graphql.Field{Type: graphql.String},
			"camera_id":         &graphql.Field{Type: graphql.String},
			"location":          &graphql.Field{Type: graphql.String},
			"private_govt":      &graphql.Field{Type: graphql.String},
			"owner_name":        &graphql.Field{Type: graphql.String},
			"contact_no":        &graphql.Field{Type: graphql.String},
			"latitude":          &graphql.Field{Type: graphql.String},
			"longitude":         &graphql.Field{Type: graphql.String},
			"coverage":          &graphql.Field{Type: graphql.String},
			"backup":            &graphql.Field{Type: graphql.String},
			"connected_network": &graphql.Field{Type: graphql.String},
			"status":            &graphql.Field{Type: graphql.String},
			"distance": &graphql.Field{
				Type:        graphql.Float,
				Description: "Distance from the search center in kilometers",
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"nearbyCameras": &graphql.Field{
				Type:        graphql.NewList(cameraType),
				Description: "Cameras within radiusMeters of a point, nearest first",
				Args: graphql.FieldConfigArgument{
					"latitude":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"longitude":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radiusMeters":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: deps.Cameras.Options().DefaultRadiusMeters},
					"statusFilter":    &graphql.ArgumentConfig{Type: graphql.String},
					"ownershipFilter": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					req := domain.SearchRequest{
						Center: domain.GeoPoint{
							Lat: p.Args["latitude"].(float64),
							Lon: p.Args["longitude"].(float64),
						},
						RadiusMeters: p.Args["radiusMeters"].(int),
					}
					if s, ok := p.Args["statusFilter"].(string); ok {
						req.StatusFilter = s
					}
					if s, ok := p.Args["ownershipFilter"].(string); ok {
						req.OwnershipFilter = s
					}

					cams, err := deps.Cameras.FindNearby(p.Context, req)
					if err != nil {
						return nil, err
					}

					// Convert domain.NearbyCamera to a map for GraphQL
					result := make([]map[string]interface{}, 0, len(cams))
					for _, c := range cams {
						result = append(result, map[string]interface{}{
							"id":                c.ID,
							"camera_id":         c.CameraID,
							"location":          c.Location,
							"private_govt":      c.PrivateGovt,
							"owner_name":        c.OwnerName,
							"contact_no":        c.ContactNo,
							"latitude":          c.Latitude,
							"longitude":         c.Longitude,
							"coverage":          c.Coverage,
							"backup":            c.Backup,
							"connected_network": c.ConnectedNetwork,
							"status":            c.Status,
							"distance":          c.Distance,
						})
					}
					return result, nil
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
		if req.Query == "" {
			return errBadRequest(c, "query is required")
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
