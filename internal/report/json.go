package report

import (
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	thresh "github.com/jamesainslie/go-thresh"
)

// Selection is a result chosen by a named policy.
type Selection struct {
	Policy string
	Result thresh.EvaluationResult
}

var jsonOptions = protojson.MarshalOptions{Multiline: true, Indent: "  "}

// WriteJSON writes results and selections as one JSON document:
//
//	{"results": [...], "selections": {"best_f1": {...}}}
//
// A NotApplicable threshold is written as null.
func WriteJSON(w io.Writer, results []thresh.EvaluationResult, selections ...Selection) error {
	items := make([]any, len(results))
	for i, r := range results {
		items[i] = resultFields(r)
	}

	chosen := make(map[string]any, len(selections))
	for _, s := range selections {
		chosen[s.Policy] = resultFields(s.Result)
	}

	doc, err := structpb.NewStruct(map[string]any{
		"results":    items,
		"selections": chosen,
	})
	if err != nil {
		return fmt.Errorf("build json document: %w", err)
	}

	data, err := jsonOptions.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	_, err = w.Write(append(data, '\n'))
	return err
}

func resultFields(r thresh.EvaluationResult) map[string]any {
	var threshold any
	if v, ok := r.Threshold.Value(); ok {
		threshold = v
	}

	return map[string]any{
		"threshold":         threshold,
		"tp":                r.TP,
		"fp":                r.FP,
		"fn":                r.FN,
		"tn":                r.TN,
		"precision":         r.Precision,
		"recall":            r.Recall,
		"f1":                r.F1,
		"support":           r.Support,
		"accuracy":          r.Accuracy,
		"specificity":       r.Specificity,
		"balanced_accuracy": r.BalancedAccuracy,
		"mcc":               r.MCC,
	}
}
