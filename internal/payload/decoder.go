package payload

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/thebtf/threaddigest/pkg/models"
)

// jsonRequest uses pointers so that absent fields can be told apart from
// empty ones.
type jsonRequest struct {
	Embeddings *[][]float64      `json:"embeddings"`
	Messages   *[]models.Message `json:"messages"`
}

type yamlRequest struct {
	Embeddings *[][]float64 `yaml:"embeddings"`
	Messages   *[]any       `yaml:"messages"`
}

// Decode reads a whole request document from r and validates it.
// Every failure is a *models.DecodeError.
//
// An empty embeddings list with an empty messages list is accepted here;
// the clusterer rejects N == 0.
func Decode(r io.Reader, format Format) (*Input, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &models.DecodeError{Reason: "read input", Err: err}
	}

	var in *Input
	switch format {
	case FormatYAML:
		in, err = decodeYAML(data)
	case FormatJSON, "":
		in, err = decodeJSON(data)
	default:
		return nil, &models.DecodeError{Reason: fmt.Sprintf("unsupported format %q", format)}
	}
	if err != nil {
		return nil, err
	}

	if err := validate(in); err != nil {
		return nil, err
	}
	return in, nil
}

func decodeJSON(data []byte) (*Input, error) {
	var req jsonRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, &models.DecodeError{Reason: "malformed JSON document", Err: err}
	}
	if req.Embeddings == nil {
		return nil, &models.DecodeError{Reason: `missing field "embeddings"`}
	}
	if req.Messages == nil {
		return nil, &models.DecodeError{Reason: `missing field "messages"`}
	}
	return &Input{Embeddings: *req.Embeddings, Messages: *req.Messages}, nil
}

func decodeYAML(data []byte) (*Input, error) {
	var req yamlRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, &models.DecodeError{Reason: "malformed YAML document", Err: err}
	}
	if req.Embeddings == nil {
		return nil, &models.DecodeError{Reason: `missing field "embeddings"`}
	}
	if req.Messages == nil {
		return nil, &models.DecodeError{Reason: `missing field "messages"`}
	}

	messages := make([]models.Message, len(*req.Messages))
	for i, v := range *req.Messages {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, &models.DecodeError{Reason: fmt.Sprintf("message %d cannot be represented as JSON", i), Err: err}
		}
		messages[i] = raw
	}
	return &Input{Embeddings: *req.Embeddings, Messages: messages}, nil
}

func validate(in *Input) error {
	if len(in.Embeddings) != len(in.Messages) {
		return &models.DecodeError{
			Reason: fmt.Sprintf("length mismatch: %d embeddings, %d messages", len(in.Embeddings), len(in.Messages)),
		}
	}
	return in.Embeddings.ValidateShape()
}
