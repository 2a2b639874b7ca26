package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

func runActivitySearch(apiURL, activity, destination string, out io.Writer) error {
	if activity == "" || destination == "" {
		return fmt.Errorf("activity and destination cannot be empty")
	}
	payload := map[string]string{
		"activity":    activity,
		"destination": destination,
	}
	body, _ := json.Marshal(payload)
	resp, err := http.Post(apiURL+"/api/activities/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var sr struct {
		Activities []struct {
			Name       string  `json:"name"`
			Similarity float64 `json:"similarity"`
		} `json:"activities"`
		Count int `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return err
	}
	if sr.Count == 0 {
		fmt.Fprintf(out, "no activities matched %q in %s\n", activity, destination)
		return nil
	}
	for _, a := range sr.Activities {
		fmt.Fprintf(out, "%.3f  %s\n", a.Similarity, a.Name)
	}
	return nil
}
