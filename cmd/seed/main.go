// Package main provides a tool to load books into a running catalog server
// through the addBook mutation.
//
// Usage:
//
//	go run ./cmd/seed                                  # add a few sample books
//	go run ./cmd/seed -file books.json -rps 2          # add books from a JSON array
//	go run ./cmd/seed -url http://localhost:4000/ -n 3 # add the first 3 samples
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/listenupapp/bookcatalog/internal/domain"
	"github.com/listenupapp/bookcatalog/internal/ratelimit"
)

const addBookMutation = `mutation AddBook($data: BookInput!) {
  addBook(data: $data) { id title author }
}`

var samples = []domain.BookInput{
	{Title: "Dune", Author: "Frank Herbert"},
	{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin"},
	{Title: "Beloved", Author: "Toni Morrison"},
	{Title: "The Remains of the Day", Author: "Kazuo Ishiguro"},
	{Title: "Ghost in the Wires", Author: "Kevin Mitnick"},
}

var (
	serverURL = flag.String("url", "http://localhost:4000/", "GraphQL endpoint")
	file      = flag.String("file", "", "JSON file with an array of {title, author} objects")
	limit     = flag.Int("n", 0, "Add at most n books (0 = all)")
	rps       = flag.Float64("rps", 5, "Mutations per second")
)

func main() {
	flag.Parse()

	books := samples
	if *file != "" {
		var err error
		books, err = readBooks(*file)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", *file, err)
		}
	}
	if *limit > 0 && *limit < len(books) {
		books = books[:*limit]
	}

	limiter := ratelimit.New(*rps, 1)
	defer limiter.Stop()

	client := &client{
		url:     *serverURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: limiter,
	}

	ctx := context.Background()
	for _, in := range books {
		book, err := client.addBook(ctx, in)
		if err != nil {
			log.Fatalf("Failed to add %q: %v", in.Title, err)
		}
		fmt.Printf("Added book %s: %s by %s\n", book.ID, book.Title, book.Author)
	}

	fmt.Printf("\nSeeded %d books into %s\n", len(books), *serverURL)
}

func readBooks(path string) ([]domain.BookInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var books []domain.BookInput
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}
	return books, nil
}

type client struct {
	url     string
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
}

type graphQLError struct {
	Message string `json:"message"`
}

type addBookResponse struct {
	Data *struct {
		AddBook *domain.Book `json:"addBook"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// addBook sends one addBook mutation, waiting for the limiter first.
func (c *client) addBook(ctx context.Context, in domain.BookInput) (*domain.Book, error) {
	if err := c.limiter.Wait(ctx, c.url); err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]any{
		"query":         addBookMutation,
		"operationName": "AddBook",
		"variables":     map[string]any{"data": in},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out addBookResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if len(out.Errors) > 0 {
		return nil, fmt.Errorf("server error: %s", out.Errors[0].Message)
	}
	if out.Data == nil || out.Data.AddBook == nil {
		return nil, fmt.Errorf("empty response (status %d)", resp.StatusCode)
	}
	return out.Data.AddBook, nil
}
