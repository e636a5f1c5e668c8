package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Blocks is the number of CNN stages the visualizer explains.
const Blocks = 4

// FallbackDescription is used when no image description is available.
const FallbackDescription = "An uploaded image"

// UploadNotice is shown when the upload could not be analysed by a provider.
const UploadNotice = "Image uploaded successfully. Click on the CNN blocks below to see how this image would transform through different layers of a Convolutional Neural Network."

// DescribePrompt asks the text provider for a description detailed enough
// to drive later block explanations without the image itself.
const DescribePrompt = `Describe this image in detail for someone who cannot see it.
Cover the main subjects, their shapes and outlines, textures and surfaces, colours and lighting,
and the overall composition. Write one dense paragraph without headings.`

type blockTraits struct {
	ordinal  string
	features []string
	focus    []string
}

var blockInfo = map[int]blockTraits{
	1: {
		ordinal: "FIRST",
		features: []string{
			"responds to edges, lines and simple intensity gradients",
			"separates horizontal, vertical and diagonal edges",
			"works with very small receptive fields",
			"produces high-contrast outlines and simple patterns",
		},
		focus: []string{
			"which edges and gradients stand out",
			"how the image looks once reduced to outlines and contrast",
			"which basic repeating patterns appear",
		},
	},
	2: {
		ordinal: "SECOND",
		features: []string{
			"combines edges into textures and repeated motifs",
			"responds to corners, curves and simple shapes",
			"picks up stripes, dots and rough or smooth surfaces",
			"sees a larger area of the image than the first block",
		},
		focus: []string{
			"which textures and patterns are emphasised",
			"how curves and simple shapes would appear",
			"what surface information is captured",
		},
	},
	3: {
		ordinal: "THIRD",
		features: []string{
			"assembles patterns into parts of objects",
			"responds to components such as eyes, wheels or leaves",
			"produces activations tied to meaningful structures",
			"has a receptive field covering large regions",
		},
		focus: []string{
			"which object parts light up",
			"how recognisable components would look",
			"what structures emerge from the textures",
		},
	},
	4: {
		ordinal: "FOURTH",
		features: []string{
			"combines object parts into whole objects",
			"reflects high-level semantic understanding",
			"represents complete objects rather than parts",
			"has a receptive field spanning most of the image",
		},
		focus: []string{
			"which complete objects are recognised",
			"how the semantic content of the scene would appear",
			"what high-level features are captured",
		},
	},
}

// ValidBlock reports whether block names one of the visualizer stages.
func ValidBlock(block int) bool {
	_, ok := blockInfo[block]
	return ok
}

// BlockPrompt asks for a description of the image after the given CNN block.
func BlockPrompt(block int, description string) (string, error) {
	info, ok := blockInfo[block]
	if !ok {
		return "", fmt.Errorf("invalid block number %d: want 1-%d", block, Blocks)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert in Convolutional Neural Networks. I have an image: %s\n\n", description)
	fmt.Fprintf(&b, "Describe in detail how this image would look after passing through the %s BLOCK of a CNN.\n\n", info.ordinal)
	b.WriteString("This block typically:\n")
	for _, f := range info.features {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	b.WriteString("\nFocus on:\n")
	for i, f := range info.focus {
		fmt.Fprintf(&b, "%d. %s\n", i+1, f)
	}
	b.WriteString("\nKeep the description vivid and technical but accessible.")
	return b.String(), nil
}

// BlockImagePrompt asks an image model for a feature-map style rendering.
func BlockImagePrompt(block int, description string) (string, error) {
	info, ok := blockInfo[block]
	if !ok {
		return "", fmt.Errorf("invalid block number %d: want 1-%d", block, Blocks)
	}
	return fmt.Sprintf(
		"An abstract visualization of CNN feature maps from the %s convolutional block, applied to: %s. "+
			"The rendering %s. Dark background, glowing activations, grid of feature map tiles, no text.",
		strings.ToLower(info.ordinal), description, info.features[0]), nil
}

// MaxTokenizeChars bounds the text accepted by the AI tokenizer.
const MaxTokenizeChars = 2000

// TokenizePrompt asks the text provider to tokenize like a large language model.
func TokenizePrompt(text string) string {
	return fmt.Sprintf(`Split the following text into the tokens a large language model tokenizer would produce.
Reply with JSON only, in the form {"tokens": ["..."], "explanation": "..."} where the explanation
briefly says why words were split the way they were.

Text:
%s`, text)
}

// Tokenization is the parsed reply to TokenizePrompt.
type Tokenization struct {
	Tokens      []string `json:"tokens"`
	Explanation string   `json:"explanation"`
}

// ParseTokenization extracts the JSON object from a model reply, tolerating
// code fences and surrounding prose. If no JSON is found every non-empty
// line becomes a token.
func ParseTokenization(raw string) Tokenization {
	if start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); start >= 0 && end > start {
		var t Tokenization
		if err := json.Unmarshal([]byte(raw[start:end+1]), &t); err == nil && t.Tokens != nil {
			return t
		}
	}

	var t Tokenization
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}
		t.Tokens = append(t.Tokens, line)
	}
	if t.Tokens == nil {
		t.Tokens = []string{}
	}
	t.Explanation = "The model reply was not JSON; each line is shown as a token."
	return t
}
