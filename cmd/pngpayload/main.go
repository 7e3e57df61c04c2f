// Command pngpayload embeds, extracts and detects binary payloads in PNG
// images and in the PNG bitmaps of Windows ICO files.
//
// Usage:
//
//	pngpayload create -i IN -o OUT [-d FILE] [-t KEYWORD FILE]... [-z KEYWORD FILE]... [-s FILE]
//	pngpayload extract -i IN -o DIR [-a] [-d] [-t KEYWORD] [-z KEYWORD] [-s]
//	pngpayload detect FILE [-a] [-m] [-d] [-t [KEYWORD]] [-z [KEYWORD]] [-s]
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pngpayload "github.com/bep/pngpayload"
)

func usage() {
	fmt.Fprint(os.Stderr, `Usage:
  pngpayload create -i IN -o OUT [-d FILE] [-t KEYWORD FILE]... [-z KEYWORD FILE]... [-s FILE]
  pngpayload extract -i IN -o DIR [-a] [-d] [-t KEYWORD] [-z KEYWORD] [-s]
  pngpayload detect FILE [-a] [-m] [-d] [-t [KEYWORD]] [-z [KEYWORD]] [-s]
`)
	os.Exit(1)
}

func fatal(code int, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "pngpayload: "+format+"\n", args...)
	os.Exit(code)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "create":
		runCreate(os.Args[2:])
	case "extract":
		runExtract(os.Args[2:])
	case "detect":
		runDetect(os.Args[2:])
	default:
		usage()
	}
}

// carrier is the input file: either a bare PNG, or an ICO whose first
// PNG-typed entry is the payload target.
type carrier struct {
	png      *pngpayload.Payload
	ico      *pngpayload.Icon
	icoIndex int
}

func openCarrier(path string) (*carrier, error) {
	data, err := pngpayload.ReadFile(path)
	if err != nil {
		return nil, err
	}

	p, err := pngpayload.ParsePayload(data, true)
	if err == nil {
		return &carrier{png: p}, nil
	}
	if !errors.Is(err, pngpayload.ErrBadSignature) {
		return nil, err
	}

	ico, err := pngpayload.ParseIcon(data)
	if err != nil {
		return nil, err
	}
	idx, ok := ico.FirstPNGEntry()
	if !ok {
		return nil, fmt.Errorf("icon has no png entries")
	}
	p, err = ico.EntryPayload(idx, true)
	if err != nil {
		return nil, err
	}
	return &carrier{png: p, ico: ico, icoIndex: idx}, nil
}

func (c *carrier) save(path string) error {
	if c.ico != nil {
		if err := c.ico.SetEntryPayload(c.icoIndex, c.png); err != nil {
			return err
		}
		return c.ico.Save(path)
	}
	return c.png.Save(path)
}

type keywordFile struct {
	keyword string
	file    string
}

func runCreate(args []string) {
	var (
		input, output, trailingFile, stegoFile string
		textPayloads, ztextPayloads            []keywordFile
	)

	for i := 0; i < len(args); i++ {
		next := func() string {
			i++
			if i >= len(args) {
				usage()
			}
			return args[i]
		}
		switch args[i] {
		case "-i", "--input":
			input = next()
		case "-o", "--output":
			output = next()
		case "-d", "--trailing-data":
			trailingFile = next()
		case "-t", "--text-payload":
			kw := next()
			textPayloads = append(textPayloads, keywordFile{kw, next()})
		case "-z", "--ztext-payload":
			kw := next()
			ztextPayloads = append(ztextPayloads, keywordFile{kw, next()})
		case "-s", "--stego-payload":
			stegoFile = next()
		default:
			usage()
		}
	}

	if input == "" || output == "" {
		usage()
	}
	if trailingFile == "" && stegoFile == "" && len(textPayloads) == 0 && len(ztextPayloads) == 0 {
		fatal(2, "create: at least one of -d/-t/-z/-s is required")
	}

	c, err := openCarrier(input)
	if err != nil {
		fatal(3, "create: %v", err)
	}

	if trailingFile != "" {
		data, err := pngpayload.ReadFile(trailingFile)
		if err != nil {
			fatal(4, "create: %v", err)
		}
		c.png.SetTrailingData(data)
		fmt.Fprintln(os.Stderr, "-> Added trailing data payload.")
	}

	for _, kf := range textPayloads {
		data, err := pngpayload.ReadFile(kf.file)
		if err != nil {
			fatal(5, "create: %v", err)
		}
		if _, err := c.png.AddTextPayload(kf.keyword, data); err != nil {
			fatal(6, "create: %v", err)
		}
		fmt.Fprintf(os.Stderr, "-> Added tEXt payload %q.\n", kf.keyword)
	}

	for _, kf := range ztextPayloads {
		data, err := pngpayload.ReadFile(kf.file)
		if err != nil {
			fatal(7, "create: %v", err)
		}
		if _, err := c.png.AddZTextPayload(kf.keyword, data); err != nil {
			fatal(8, "create: %v", err)
		}
		fmt.Fprintf(os.Stderr, "-> Added zTXt payload %q.\n", kf.keyword)
	}

	if stegoFile != "" {
		data, err := pngpayload.ReadFile(stegoFile)
		if err != nil {
			fatal(9, "create: %v", err)
		}
		result, err := c.png.CreateStegoPayload(data)
		if err != nil {
			fatal(10, "create: %v", err)
		}
		c.png = result
		fmt.Fprintln(os.Stderr, "-> Created stego payload.")
	}

	if err := c.save(output); err != nil {
		fatal(11, "create: %v", err)
	}
	fmt.Fprintf(os.Stderr, "Saved %q.\n", output)
}

func runExtract(args []string) {
	var (
		input, output, textKeyword, ztextKeyword string
		all, trailing, stego                     bool
	)

	for i := 0; i < len(args); i++ {
		next := func() string {
			i++
			if i >= len(args) {
				usage()
			}
			return args[i]
		}
		switch args[i] {
		case "-i", "--input":
			input = next()
		case "-o", "--output":
			output = next()
		case "-a", "--all":
			all = true
		case "-d", "--trailing-data":
			trailing = true
		case "-t", "--text-payload":
			textKeyword = next()
		case "-z", "--ztext-payload":
			ztextKeyword = next()
		case "-s", "--stego-payload":
			stego = true
		default:
			usage()
		}
	}

	if input == "" || output == "" {
		usage()
	}

	c, err := openCarrier(input)
	if err != nil {
		fatal(12, "extract: %v", err)
	}
	if err := os.MkdirAll(output, 0o755); err != nil {
		fatal(13, "extract: %v", err)
	}

	if all || trailing {
		if c.png.HasTrailingData() {
			data, _ := c.png.TrailingData()
			dst := filepath.Join(output, "trailing_data.bin")
			if err := pngpayload.WriteFile(dst, data); err != nil {
				fatal(14, "extract: %v", err)
			}
			fmt.Fprintf(os.Stderr, "Wrote %q.\n", dst)
		} else if !all {
			fatal(15, "extract: no trailing data found")
		}
	}

	writeSequence := func(keyword string, payloads [][]byte) {
		for i, data := range payloads {
			dst := filepath.Join(output, fmt.Sprintf("%s.%04d.bin", keyword, i))
			if err := pngpayload.WriteFile(dst, data); err != nil {
				fatal(16, "extract: %v", err)
			}
			fmt.Fprintf(os.Stderr, "Wrote %q.\n", dst)
		}
	}

	dedup := func(keywords []string) []string {
		seen := map[string]bool{}
		var out []string
		for _, kw := range keywords {
			if !seen[kw] {
				seen[kw] = true
				out = append(out, kw)
			}
		}
		return out
	}

	textKeywords := []string{textKeyword}
	if textKeyword == "" {
		textKeywords = nil
		if all {
			textKeywords = dedup(detectTextKeywords(c.png, ""))
		}
	}
	for _, kw := range textKeywords {
		payloads, err := c.png.ExtractTextPayloads(kw)
		if err != nil {
			fatal(17, "extract: %v", err)
		}
		writeSequence(kw, payloads)
	}

	ztextKeywords := []string{ztextKeyword}
	if ztextKeyword == "" {
		ztextKeywords = nil
		if all {
			ztextKeywords = dedup(detectZTextKeywords(c.png, ""))
		}
	}
	for _, kw := range ztextKeywords {
		payloads, err := c.png.ExtractZTextPayloads(kw)
		if err != nil {
			fatal(18, "extract: %v", err)
		}
		writeSequence(kw, payloads)
	}

	if all || stego {
		if err := c.png.Load(); err != nil {
			fatal(19, "extract: %v", err)
		}
		if c.png.HasStegoPayload() {
			data, err := c.png.ExtractStegoPayload()
			if err != nil {
				fatal(20, "extract: %v", err)
			}
			dst := filepath.Join(output, "stego_payload.bin")
			if err := pngpayload.WriteFile(dst, data); err != nil {
				fatal(21, "extract: %v", err)
			}
			fmt.Fprintf(os.Stderr, "Wrote %q.\n", dst)
		} else if !all {
			fatal(22, "extract: no stego payload found")
		}
	}
}

func runDetect(args []string) {
	var (
		file, textKeyword, ztextKeyword           string
		all, minimal, trailing, text, ztext, steg bool
	)

	// An optional keyword follows -t/-z unless the next token is a flag.
	optionalKeyword := func(i *int) string {
		if *i+1 < len(args) && !strings.HasPrefix(args[*i+1], "-") {
			*i++
			return args[*i]
		}
		return ""
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-a", "--all":
			all = true
		case "-m", "--minimal":
			minimal = true
		case "-d", "--trailing-data":
			trailing = true
		case "-t", "--text-payload":
			text = true
			textKeyword = optionalKeyword(&i)
		case "-z", "--ztext-payload":
			ztext = true
			ztextKeyword = optionalKeyword(&i)
		case "-s", "--stego-data":
			steg = true
		default:
			if file != "" || strings.HasPrefix(args[i], "-") {
				usage()
			}
			file = args[i]
		}
	}

	if file == "" {
		usage()
	}
	if all || !(trailing || text || ztext || steg) {
		trailing, text, ztext, steg = true, true, true, true
	}

	c, err := openCarrier(file)
	if err != nil {
		fatal(23, "detect: %v", err)
	}

	status := func(format string, args ...any) {
		if !minimal {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}
	}

	var report []string

	if trailing {
		if c.png.HasTrailingData() {
			status("Found trailing data.")
			report = append(report, "trailing-data")
		} else {
			status("No trailing data present.")
		}
	}

	if text {
		for _, kw := range detectTextKeywords(c.png, textKeyword) {
			status("Found tEXt payload %q.", kw)
			report = append(report, "tEXt:"+kw)
		}
	}

	if ztext {
		for _, kw := range detectZTextKeywords(c.png, ztextKeyword) {
			status("Found zTXt payload %q.", kw)
			report = append(report, "zTXt:"+kw)
		}
	}

	if steg {
		if err := c.png.Load(); err == nil && c.png.HasStegoPayload() {
			status("Found stego payload.")
			report = append(report, "stego")
		} else {
			status("No stego data present.")
		}
	}

	if minimal {
		fmt.Println(strings.Join(report, ","))
	}

	if len(report) == 0 {
		os.Exit(24)
	}
}

// detectTextKeywords lists the keywords of tEXt chunks carrying base64
// bodies, restricted to one keyword when given.
func detectTextKeywords(p *pngpayload.Payload, keyword string) []string {
	chunks, err := p.GetChunks("tEXt")
	if err != nil {
		return nil
	}

	var result []string
	for _, c := range chunks {
		t := pngpayload.TextView(c)
		kw, err := t.Keyword()
		if err != nil {
			continue
		}
		if keyword != "" && kw != keyword {
			continue
		}
		if pngpayload.IsBase64String(t.Text()) && t.HasText() {
			result = append(result, kw)
		}
	}
	return result
}

// detectZTextKeywords lists the keywords of zTXt chunks whose inflated
// bodies are base64, restricted to one keyword when given.
func detectZTextKeywords(p *pngpayload.Payload, keyword string) []string {
	chunks, err := p.GetChunks("zTXt")
	if err != nil {
		return nil
	}

	var result []string
	for _, c := range chunks {
		t := pngpayload.ZTextView(c)
		kw, err := t.Keyword()
		if err != nil {
			continue
		}
		if keyword != "" && kw != keyword {
			continue
		}
		body, err := t.Text()
		if err != nil {
			continue
		}
		if body != "" && pngpayload.IsBase64String(body) {
			result = append(result, kw)
		}
	}
	return result
}
