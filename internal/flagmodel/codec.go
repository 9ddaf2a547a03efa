package flagmodel

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// JSON property names used in the stored payload.
const (
	PropertyUID         = "uid"
	PropertyEnable      = "enable"
	PropertyDescription = "description"
)

// DecodeFlag parses a JSON payload into a FlagRecord.
//
// The payload must be an object containing "uid", "enable", and "description". "enable" must be a
// boolean; "uid" and "description" are converted to strings if they have some other JSON type. Any
// other properties are ignored. Either the whole record is decoded or an error is returned.
func DecodeFlag(payload string) (FlagRecord, error) {
	if payload == "" {
		return FlagRecord{}, ErrEmptyPayload
	}

	var value ldvalue.Value
	if err := value.UnmarshalJSON([]byte(payload)); err != nil {
		return FlagRecord{}, errUnparseable(err)
	}
	if value.Type() != ldvalue.ObjectType {
		return FlagRecord{}, errNotAnObject()
	}

	uid, err := requiredProperty(value, PropertyUID)
	if err != nil {
		return FlagRecord{}, err
	}
	enable, err := requiredProperty(value, PropertyEnable)
	if err != nil {
		return FlagRecord{}, err
	}
	if enable.Type() != ldvalue.BoolType {
		return FlagRecord{}, errWrongPropertyType(PropertyEnable, "boolean")
	}
	description, err := requiredProperty(value, PropertyDescription)
	if err != nil {
		return FlagRecord{}, err
	}

	return FlagRecord{
		ID:          stringForm(uid),
		Enabled:     enable.BoolValue(),
		Description: stringForm(description),
	}, nil
}

// EncodeFlag produces the JSON payload for a FlagRecord. DecodeFlag(EncodeFlag(f)) always returns f.
func EncodeFlag(flag FlagRecord) string {
	w := jwriter.NewWriter()
	WriteFlag(&w, flag)
	return string(w.Bytes())
}

// WriteFlag writes the JSON representation of a FlagRecord to an existing JSON writer.
func WriteFlag(w *jwriter.Writer, flag FlagRecord) {
	obj := w.Object()
	obj.Name(PropertyUID).String(flag.ID)
	obj.Name(PropertyEnable).Bool(flag.Enabled)
	obj.Name(PropertyDescription).String(flag.Description)
	obj.End()
}

// A property that is explicitly null is treated the same as one that is missing.
func requiredProperty(object ldvalue.Value, name string) (ldvalue.Value, error) {
	value, ok := object.TryGetByKey(name)
	if !ok || value.IsNull() {
		return ldvalue.Null(), errMissingProperty(name)
	}
	return value, nil
}

func stringForm(value ldvalue.Value) string {
	if value.Type() == ldvalue.StringType {
		return value.StringValue()
	}
	return value.JSONString()
}
