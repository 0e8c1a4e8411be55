// Package flattenx writes Go values as JSON or YAML documents and can unwrap a
// nested value into its parent object, renaming its properties on the way.
//
// Serialization is driven by struct tags and by property writers. A property
// writer reads one value from its owner, finds a serializer for the value's
// runtime type and writes the field. A flattening writer does the same but
// asks the serializer to write its properties inline, each name passed
// through a NameTransformer.
//
// # Quick Start
//
//	type Address struct {
//	    Street string `flat:"street"`
//	    City   string `flat:"city"`
//	}
//
//	type Customer struct {
//	    Name    string   `flat:"name"`
//	    Home    Address  `flat:",unwrapped,prefix=home_"`
//	    Billing *Address `flat:",unwrapped,prefix=billing_"`
//	}
//
//	mapper, err := flattenx.NewMapper()
//	if err != nil {
//	    return err
//	}
//	data, err := mapper.Marshal(&Customer{Name: "Ada", Home: Address{City: "London"}})
//	// {"name":"Ada","home_street":"","home_city":"London"}
//
// # Struct Tags
//
// The tag key defaults to "flat" and takes a name followed by options:
//
//   - "-" skips the field
//   - omitempty, omitzero, always, nonnull choose when the field is written
//   - unwrapped (or inline) writes the value's properties into the parent
//   - prefix=... and suffix=... rename unwrapped properties
//
// Anonymous embedded structs without a tag are unwrapped as they are.
//
// # Property Writers
//
// Writers can also be built by hand, for values that are not structs:
//
//	name := flattenx.AccessorFunc(func(v any) (any, error) { return v.(map[string]any)["name"], nil })
//	w := flattenx.NewPropertyWriter("name", name, reflect.TypeOf(""))
//	ser := flattenx.NewStructSerializer(w)
//
// Writers cache the serializers they resolve per runtime type. The cache is an
// immutable value swapped atomically, so a writer may be shared by any number
// of goroutines.
//
// # Polymorphic Values
//
// Properties declared with an interface registered through
// Provider.EnablePolymorphism write a type id before their value, under the
// configured type property ("@type" by default). Ids come from
// Provider.RegisterTypeName, falling back to the Go type name.
//
// # Error Handling
//
// Errors wrap the sentinels declared in errors.go and can be checked with
// errors.Is:
//
//	if errors.Is(err, flattenx.ErrSelfReference) {
//	    // a field refers to the instance that holds it
//	}
//
// Typed errors (SelfReferenceError, SerializerResolutionError) carry the field
// and type involved and can be inspected with errors.As. Introspection
// failures for a struct are collected into one *IntrospectionError keyed by
// field name.
//
// # Observability
//
// Configure a MetricsCollector, an ObservabilityHook or a *slog.Logger with
// WithMetricsCollector, WithObservabilityHook and WithLogger. NewLoggingHook
// logs runs and resolutions through slog and NewCompositeHook fans events out
// to several hooks:
//
//	hook := flattenx.NewCompositeHook(flattenx.NewLoggingHook(logger), tracingHook)
//	mapper, err := flattenx.NewMapper(flattenx.WithObservabilityHook(hook))
package flattenx
