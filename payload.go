// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package pngpayload

// Payload is an Image with the payload engines attached: trailing data,
// base64 text/ztext bodies, and the steganographic container.
type Payload struct {
	Image
}

// NewPayload returns an empty payload image.
func NewPayload() *Payload {
	return &Payload{Image: *NewImage()}
}

// ParsePayload parses a PNG byte stream into a payload image.
func ParsePayload(data []byte, validate bool) (*Payload, error) {
	p := NewPayload()
	if err := p.Parse(data, validate); err != nil {
		return nil, err
	}
	return p, nil
}

// ParsePayloadFile reads and parses the named PNG file into a payload image.
func ParsePayloadFile(path string, validate bool) (*Payload, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePayload(data, validate)
}

// Clone returns a deep copy of the payload image.
func (p *Payload) Clone() *Payload {
	return &Payload{Image: *p.Image.Clone()}
}

// AddTextPayload stores data as a base64 body in a new tEXt chunk.
func (p *Payload) AddTextPayload(keyword string, data []byte) (*Text, error) {
	return p.AddText(keyword, Base64Encode(data))
}

// RemoveTextPayload removes the tEXt chunk holding data under the keyword.
func (p *Payload) RemoveTextPayload(keyword string, data []byte) error {
	return p.RemoveText(keyword, Base64Encode(data))
}

// GetTextPayloads returns the tEXt chunks under the keyword whose bodies are
// valid base64. Any chunk with an invalid body fails the whole call.
func (p *Payload) GetTextPayloads(keyword string) ([]*Text, error) {
	texts, err := p.GetText(keyword)
	if err != nil {
		return nil, err
	}
	for _, t := range texts {
		if body := t.Text(); !IsBase64String(body) {
			return nil, &InvalidBase64StringError{S: body}
		}
	}
	return texts, nil
}

// ExtractTextPayloads returns, in chunk order, the decoded bytes of every
// tEXt payload under the keyword.
func (p *Payload) ExtractTextPayloads(keyword string) ([][]byte, error) {
	texts, err := p.GetTextPayloads(keyword)
	if err != nil {
		return nil, err
	}

	result := make([][]byte, 0, len(texts))
	for _, t := range texts {
		data, err := Base64Decode(t.Text())
		if err != nil {
			return nil, err
		}
		result = append(result, data)
	}
	return result, nil
}

// AddZTextPayload stores data as a base64 body in a new zTXt chunk.
func (p *Payload) AddZTextPayload(keyword string, data []byte) (*ZText, error) {
	return p.AddZText(keyword, Base64Encode(data))
}

// RemoveZTextPayload removes the zTXt chunk holding data under the keyword.
func (p *Payload) RemoveZTextPayload(keyword string, data []byte) error {
	return p.RemoveZText(keyword, Base64Encode(data))
}

// GetZTextPayloads returns the zTXt chunks under the keyword whose inflated
// bodies are valid base64. Any chunk with an invalid body fails the whole
// call.
func (p *Payload) GetZTextPayloads(keyword string) ([]*ZText, error) {
	ztexts, err := p.GetZText(keyword)
	if err != nil {
		return nil, err
	}
	for _, t := range ztexts {
		body, err := t.Text()
		if err != nil {
			return nil, err
		}
		if !IsBase64String(body) {
			return nil, &InvalidBase64StringError{S: body}
		}
	}
	return ztexts, nil
}

// ExtractZTextPayloads returns, in chunk order, the decoded bytes of every
// zTXt payload under the keyword.
func (p *Payload) ExtractZTextPayloads(keyword string) ([][]byte, error) {
	ztexts, err := p.GetZTextPayloads(keyword)
	if err != nil {
		return nil, err
	}

	result := make([][]byte, 0, len(ztexts))
	for _, t := range ztexts {
		body, err := t.Text()
		if err != nil {
			return nil, err
		}
		data, err := Base64Decode(body)
		if err != nil {
			return nil, err
		}
		result = append(result, data)
	}
	return result, nil
}
