package pngpayload_test

import (
	"fmt"
	"log"

	pngpayload "github.com/bep/pngpayload"
)

// Embedding payloads into an image: trailing data rides after IEND, text
// payloads become base64 chunk bodies, and the stego engine rewrites the
// pixel data itself.
func Example_payloadCreation() {
	image, err := pngpayload.ParsePayloadFile("art.png", true)
	if err != nil {
		log.Fatal(err)
	}

	data := []byte("Just an arbitrary payload, nothing suspicious here!")

	// A payload at the end of the file.
	image.SetTrailingData(data)

	// Or a text section.
	if _, err := image.AddTextPayload("tEXt payload", data); err != nil {
		log.Fatal(err)
	}

	// Or a ztext section.
	if _, err := image.AddZTextPayload("zTXt payload", data); err != nil {
		log.Fatal(err)
	}

	// Or a stego-encoded payload.
	result, err := image.CreateStegoPayload(data)
	if err != nil {
		log.Fatal(err)
	}

	if err := result.Save("art.payload.png"); err != nil {
		log.Fatal(err)
	}
}

// Extracting payloads back out of a carrier image.
func Example_payloadExtraction() {
	image, err := pngpayload.ParsePayloadFile("art.payload.png", true)
	if err != nil {
		log.Fatal(err)
	}

	if image.HasTrailingData() {
		data, _ := image.TrailingData()
		fmt.Printf("trailing data: %d bytes\n", len(data))
	}

	payloads, err := image.ExtractTextPayloads("tEXt payload")
	if err != nil {
		log.Fatal(err)
	}
	for _, data := range payloads {
		fmt.Printf("tEXt payload: %d bytes\n", len(data))
	}

	if err := image.Load(); err != nil {
		log.Fatal(err)
	}
	if image.HasStegoPayload() {
		data, err := image.ExtractStegoPayload()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("stego payload: %d bytes\n", len(data))
	}
}
