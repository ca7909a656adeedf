package cart

import (
	gojson "github.com/goccy/go-json"
)

// The persisted representation is a JSON array of lines. Absence of the key
// and a decode failure are both read as an empty cart by the store.

func encodeCart(c Cart) ([]byte, error) {
	if c == nil {
		c = Cart{}
	}
	return gojson.Marshal(c)
}

func decodeCart(data []byte) (Cart, error) {
	if len(data) == 0 {
		return Cart{}, nil
	}
	var c Cart
	if err := gojson.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if c == nil {
		c = Cart{}
	}
	return c, nil
}
