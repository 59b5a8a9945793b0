package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

var (
	baseURL    = flag.String("base", "http://localhost:8080", "server base URL")
	students   = flag.Int("students", 50, "number of students to simulate")
	msgCount   = flag.Int("messages", 10, "messages per student")
	interval   = flag.Duration("interval", 600*time.Millisecond, "pause between messages of one student")
	lecturerID = flag.String("lecturer", "l1", "seeded lecturer every student consults")
	topic      = flag.String("topic", "Akademik", "consultation category")
)

const password = "loadtest123"

type loginResponse struct {
	Token string `json:"access_token"`
	User  struct {
		ID string `json:"id"`
	} `json:"user"`
}

type chatResponse struct {
	ID string `json:"id"`
}

var (
	sent     atomic.Int64
	received atomic.Int64
)

func main() {
	flag.Parse()
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	log.Info("starting load test", "students", *students, "messages", *msgCount)

	run := fmt.Sprintf("%d", time.Now().Unix()%100000)

	var wg sync.WaitGroup
	for i := 0; i < *students; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if err := runStudent(run, n); err != nil {
				log.Warn("student failed", "student", n, "error", err)
			}
		}(i)
	}
	wg.Wait()

	log.Info("load test complete", "sent", sent.Load(), "events_received", received.Load())
}

func runStudent(run string, n int) error {
	email := fmt.Sprintf("lt%s.%d@student.unsri.ac.id", run, n)
	nim := fmt.Sprintf("9%s%06d", run, n)

	// already registered is fine
	_, _ = postJSON("/register", "", map[string]string{
		"name":             fmt.Sprintf("Load Test %d", n),
		"nim_nip":          nim,
		"email":            email,
		"role":             "Mahasiswa",
		"password":         password,
		"password_confirm": password,
	})

	var login loginResponse
	if err := decode(postJSON("/login", "", map[string]string{"email": email, "nim_nip": nim, "role": "Mahasiswa", "password": password}))(&login); err != nil {
		return errors.Wrap(err, "login")
	}

	var c chatResponse
	if err := decode(postJSON("/api/consultations", login.Token, map[string]string{"lecturer_id": *lecturerID, "topic": *topic}))(&c); err != nil {
		return errors.Wrap(err, "consultation")
	}

	wsURL := strings.Replace(*baseURL, "http", "ws", 1) + "/ws?token=" + login.Token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return errors.Wrap(err, "websocket dial")
	}
	defer conn.Close()

	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			received.Add(int64(bytes.Count(data, []byte{'\n'}) + 1))
		}
	}()

	for i := 0; i < *msgCount; i++ {
		msg := map[string]string{
			"chat_id": c.ID,
			"text":    fmt.Sprintf("Pertanyaan %d dari mahasiswa %d", i, n),
		}
		if err := conn.WriteJSON(msg); err != nil {
			return errors.Wrap(err, "send")
		}
		sent.Add(1)
		time.Sleep(*interval)
	}
	return nil
}

func postJSON(path, token string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, *baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return http.DefaultClient.Do(req)
}

func decode(resp *http.Response, err error) func(v any) error {
	return func(v any) error {
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			return errors.Errorf("unexpected status %s", resp.Status)
		}
		return json.NewDecoder(resp.Body).Decode(v)
	}
}
