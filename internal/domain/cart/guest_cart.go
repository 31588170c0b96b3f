package cart

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// GuestCart is the client-held cart of a guest. Its serialized form is a JSON
// object keyed by "<productId>_[<sorted option ids>]".
type GuestCart struct {
	lines map[LineKey]Line
}

// NewGuestCart returns an empty guest cart
func NewGuestCart() *GuestCart {
	return &GuestCart{lines: make(map[LineKey]Line)}
}

// Add increments the quantity of a matching line and refreshes its price,
// or creates the line when none matches.
func (c *GuestCart) Add(productID uuid.UUID, options catalog.OptionSet, quantity int, price decimal.Decimal) Line {
	key := KeyOf(productID, options)
	line, ok := c.lines[key]
	if ok {
		line.Quantity += quantity
		line.Price = price
	} else {
		line = Line{
			ID:        uuid.New(),
			ProductID: productID,
			Options:   options,
			Quantity:  quantity,
			Price:     price,
		}
	}
	c.lines[key] = line
	return line
}

// Reset removes every line
func (c *GuestCart) Reset() {
	clear(c.lines)
}

// SetQuantity updates an existing line and reports whether it was found
func (c *GuestCart) SetQuantity(productID uuid.UUID, options catalog.OptionSet, quantity int) bool {
	key := KeyOf(productID, options)
	line, ok := c.lines[key]
	if !ok {
		return false
	}
	line.Quantity = quantity
	c.lines[key] = line
	return true
}

// Remove deletes a line and reports whether it was found
func (c *GuestCart) Remove(productID uuid.UUID, options catalog.OptionSet) bool {
	key := KeyOf(productID, options)
	if _, ok := c.lines[key]; !ok {
		return false
	}
	delete(c.lines, key)
	return true
}

// Lines returns the lines ordered by key
func (c *GuestCart) Lines() []Line {
	keys := make([]LineKey, 0, len(c.lines))
	for k := range c.lines {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	lines := make([]Line, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, c.lines[k])
	}
	return lines
}

// Len returns the number of lines
func (c *GuestCart) Len() int {
	return len(c.lines)
}

type guestLineJSON struct {
	ID        string             `json:"id"`
	ProductID string             `json:"product_id"`
	Quantity  int                `json:"quantity"`
	Price     decimal.Decimal    `json:"price"`
	OptionIDs []catalog.OptionID `json:"option_ids"`
}

// MarshalJSON encodes the cart in its wire form
func (c *GuestCart) MarshalJSON() ([]byte, error) {
	out := make(map[string]guestLineJSON, len(c.lines))
	for key, l := range c.lines {
		ids := l.Options.IDs()
		if ids == nil {
			ids = []catalog.OptionID{}
		}
		out[key.String()] = guestLineJSON{
			ID:        l.ID.String(),
			ProductID: l.ProductID.String(),
			Quantity:  l.Quantity,
			Price:     l.Price,
			OptionIDs: ids,
		}
	}
	return json.Marshal(out)
}

// DecodeGuestCart parses the wire form. Malformed input yields an empty
// cart and lines without a product or a positive quantity are dropped.
// Keys are rebuilt from line contents so differently ordered ids collapse.
func DecodeGuestCart(data []byte) *GuestCart {
	c := NewGuestCart()
	if len(data) == 0 {
		return c
	}
	var raw map[string]guestLineJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return c
	}
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := raw[name]
		productID, err := uuid.Parse(v.ProductID)
		if err != nil || productID == uuid.Nil || v.Quantity < 1 {
			continue
		}
		options := catalog.NewOptionSet(v.OptionIDs...)
		line := Line{
			ID:        guestLineID(v.ID, KeyOf(productID, options)),
			ProductID: productID,
			Options:   options,
			Quantity:  v.Quantity,
			Price:     v.Price,
		}
		if existing, ok := c.lines[line.Key()]; ok {
			existing.Quantity += line.Quantity
			existing.Price = line.Price
			line = existing
		}
		c.lines[line.Key()] = line
	}
	return c
}

// guestLineNamespace seeds ids for stored lines whose id is not a uuid
var guestLineNamespace = uuid.MustParse("5b0f3c1e-8d2a-4f61-9c47-2e6a1d9b7f30")

// guestLineID keeps a line's id stable across decodes. Merges remember
// guest lines by id, so a fresh random id per read would merge a line twice.
func guestLineID(raw string, key LineKey) uuid.UUID {
	if id, err := uuid.Parse(raw); err == nil && id != uuid.Nil {
		return id
	}
	return uuid.NewSHA1(guestLineNamespace, []byte(raw+"|"+key.String()))
}
