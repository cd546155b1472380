package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/graphql-go/graphql"

	"iqt/internal/adapter"
	"iqt/internal/domain"
)

// Resolver answers one capability operation; *adapter.Registry implements it
type Resolver interface {
	Resolve(ctx context.Context, capability, op string, args adapter.Args) domain.FieldOutcome[any]
}

// errNoResolver is returned by fields of a validation-only schema
var errNoResolver = errors.New("schema has no resolver")

// Schema is the compiled query schema
type Schema struct {
	gql graphql.Schema
}

// New builds the schema with every capability field bound to resolver.
// A nil resolver yields a schema that can validate but not execute.
func New(resolver Resolver) (*Schema, error) {
	b := &builder{resolver: resolver}
	gql, err := graphql.NewSchema(graphql.SchemaConfig{Query: b.queryType()})
	if err != nil {
		return nil, fmt.Errorf("failed to build schema: %w", err)
	}
	return &Schema{gql: gql}, nil
}

// NewValidator builds a schema used only for Validate
func NewValidator() (*Schema, error) {
	return New(nil)
}

// Execute validates and runs query. Field failures are reported in
// Result.Errors next to the fields that resolved.
func (s *Schema) Execute(ctx context.Context, query string, variables map[string]any, operationName string) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         s.gql,
		RequestString:  query,
		VariableValues: variables,
		OperationName:  operationName,
		Context:        ctx,
	})
}

// namespace is the value of the grouping fields (hostname, disk, ip, ...)
type namespace struct{}

type builder struct {
	resolver Resolver
}

func (b *builder) queryType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"hostname": namespaceField(b.hostnameType()),
			"disk":     namespaceField(b.diskType()),
			"docker":   namespaceField(b.dockerType()),
			"ip":       namespaceField(b.ipType()),
		},
	})
}

func namespaceField(typ *graphql.Object) *graphql.Field {
	return &graphql.Field{
		Type: typ,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return namespace{}, nil
		},
	}
}

// capabilityField binds a schema field to one capability operation
func (b *builder) capabilityField(capability, op string, typ graphql.Output, args graphql.FieldConfigArgument) *graphql.Field {
	return &graphql.Field{
		Type: typ,
		Args: args,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			if b.resolver == nil {
				return nil, errNoResolver
			}
			return b.resolver.Resolve(p.Context, capability, op, stringArgs(p.Args)).Get()
		},
	}
}

// stringArgs converts resolved field arguments to adapter.Args
func stringArgs(in map[string]interface{}) adapter.Args {
	if len(in) == 0 {
		return nil
	}
	out := make(adapter.Args, len(in))
	for k, v := range in {
		if v == nil {
			continue
		}
		out[k] = fmt.Sprint(v)
	}
	return out
}

func (b *builder) hostnameType() *graphql.Object {
	flag := graphql.NewEnum(graphql.EnumConfig{
		Name:        "HostnameFlag",
		Description: "Which form of the host name to return",
		Values: graphql.EnumValueConfigMap{
			"SHORT": &graphql.EnumValueConfig{Value: "SHORT", Description: "host name cut at the first dot"},
			"LONG":  &graphql.EnumValueConfig{Value: "LONG", Description: "fully qualified domain name"},
		},
	})

	name := b.capabilityField(adapter.CapHostname, "name", graphql.String, graphql.FieldConfigArgument{
		adapter.ArgFlag: &graphql.ArgumentConfig{Type: flag, DefaultValue: "LONG"},
	})
	resolve := name.Resolve
	name.Resolve = func(p graphql.ResolveParams) (interface{}, error) {
		v, err := resolve(p)
		if err != nil {
			return nil, err
		}
		if h, ok := v.(domain.HostnameResult); ok {
			return h.Name, nil
		}
		return v, nil
	}

	return graphql.NewObject(graphql.ObjectConfig{
		Name:   "Hostname",
		Fields: graphql.Fields{"name": name},
	})
}

func (b *builder) diskType() *graphql.Object {
	usage := graphql.NewObject(graphql.ObjectConfig{
		Name: "DiskUsage",
		Fields: graphql.Fields{
			"fileSystem": &graphql.Field{Type: graphql.String},
			"size":       &graphql.Field{Type: graphql.String},
			"used":       &graphql.Field{Type: graphql.String},
			"available":  &graphql.Field{Type: graphql.String},
			"usePercent": &graphql.Field{Type: graphql.Int},
			"mountPoint": &graphql.Field{Type: graphql.String},
		},
	})

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Disk",
		Fields: graphql.Fields{
			"usage": b.capabilityField(adapter.CapDisk, "usage", graphql.NewList(usage), graphql.FieldConfigArgument{
				adapter.ArgPath: &graphql.ArgumentConfig{Type: graphql.String},
			}),
		},
	})
}

func (b *builder) dockerType() *graphql.Object {
	process := graphql.NewObject(graphql.ObjectConfig{
		Name: "DockerProcess",
		Fields: graphql.Fields{
			"command":    &graphql.Field{Type: graphql.String},
			"createdAt":  &graphql.Field{Type: graphql.String},
			"image":      &graphql.Field{Type: graphql.String},
			"names":      &graphql.Field{Type: graphql.String},
			"runningFor": &graphql.Field{Type: graphql.String},
			"state":      &graphql.Field{Type: graphql.String},
			"status":     &graphql.Field{Type: graphql.String},
		},
	})

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Docker",
		Fields: graphql.Fields{
			"ps": b.capabilityField(adapter.CapDocker, "ps", graphql.NewList(process), nil),
		},
	})
}

func (b *builder) ipType() *graphql.Object {
	stringList := graphql.NewList(graphql.String)

	route := graphql.NewObject(graphql.ObjectConfig{
		Name: "Route",
		Fields: graphql.Fields{
			"dst":      &graphql.Field{Type: graphql.String},
			"gateway":  &graphql.Field{Type: graphql.String},
			"dev":      &graphql.Field{Type: graphql.String},
			"protocol": &graphql.Field{Type: graphql.String},
			"prefsrc":  &graphql.Field{Type: graphql.String},
			"metric":   &graphql.Field{Type: graphql.Int},
			"flags":    &graphql.Field{Type: stringList},
		},
	})

	addrInfo := graphql.NewObject(graphql.ObjectConfig{
		Name: "AddrInfo",
		Fields: graphql.Fields{
			"family":            &graphql.Field{Type: graphql.String},
			"local":             &graphql.Field{Type: graphql.String},
			"prefixlen":         &graphql.Field{Type: graphql.Int},
			"scope":             &graphql.Field{Type: graphql.String},
			"label":             &graphql.Field{Type: graphql.String},
			"noprefixroute":     &graphql.Field{Type: graphql.Boolean},
			"validLifeTime":     &graphql.Field{Type: graphql.Float},
			"preferredLifeTime": &graphql.Field{Type: graphql.Float},
		},
	})

	// interfaceFields are shared by Address and Link
	interfaceFields := func() graphql.Fields {
		return graphql.Fields{
			"ifindex":   &graphql.Field{Type: graphql.Int},
			"ifname":    &graphql.Field{Type: graphql.String},
			"flags":     &graphql.Field{Type: stringList},
			"mtu":       &graphql.Field{Type: graphql.Int},
			"qdisc":     &graphql.Field{Type: graphql.String},
			"operstate": &graphql.Field{Type: graphql.String},
			"group":     &graphql.Field{Type: graphql.String},
			"txqlen":    &graphql.Field{Type: graphql.Int},
			"linkType":  &graphql.Field{Type: graphql.String},
			"address":   &graphql.Field{Type: graphql.String},
			"broadcast": &graphql.Field{Type: graphql.String},
		}
	}

	addressFields := interfaceFields()
	addressFields["addrInfo"] = &graphql.Field{Type: graphql.NewList(addrInfo)}
	address := graphql.NewObject(graphql.ObjectConfig{Name: "Address", Fields: addressFields})

	linkFields := interfaceFields()
	linkFields["linkmode"] = &graphql.Field{Type: graphql.String}
	link := graphql.NewObject(graphql.ObjectConfig{Name: "Link", Fields: linkFields})

	linkArg := graphql.FieldConfigArgument{
		adapter.ArgLink: &graphql.ArgumentConfig{Type: graphql.String},
	}

	routeOps := graphql.NewObject(graphql.ObjectConfig{
		Name: "RouteOps",
		Fields: graphql.Fields{
			"list": b.capabilityField(adapter.CapIPRoute, "list", graphql.NewList(route), nil),
			"get": b.capabilityField(adapter.CapIPRoute, "get", graphql.NewList(route), graphql.FieldConfigArgument{
				adapter.ArgIPAddress: &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			}),
		},
	})
	addressOps := graphql.NewObject(graphql.ObjectConfig{
		Name: "AddressOps",
		Fields: graphql.Fields{
			"show": b.capabilityField(adapter.CapIPAddress, "show", graphql.NewList(address), linkArg),
		},
	})
	linkOps := graphql.NewObject(graphql.ObjectConfig{
		Name: "LinkOps",
		Fields: graphql.Fields{
			"show": b.capabilityField(adapter.CapIPLink, "show", graphql.NewList(link), linkArg),
		},
	})

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "IP",
		Fields: graphql.Fields{
			"route":   namespaceField(routeOps),
			"address": namespaceField(addressOps),
			"link":    namespaceField(linkOps),
		},
	})
}
