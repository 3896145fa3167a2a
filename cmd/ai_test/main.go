package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go-autoapply-engine/internal/ai"
	"go-autoapply-engine/internal/models"
	"go-autoapply-engine/internal/responder"
)

func main() {
	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		log.Println("GROQ_API_KEY environment variable not set. Please set it to test the AI.")
		return
	}

	client := ai.NewGrokClient(apiKey)
	answerer := responder.New(client, "")

	profile := models.ApplicantProfile{
		FullName:          "Jamie Rivera",
		Email:             "jamie.rivera@example.com",
		Headline:          "Senior Backend Engineer",
		Skills:            []string{"Go", "PostgreSQL", "Kafka", "Kubernetes"},
		YearsOfExperience: 7,
		CurrentCompany:    "Acme Corp",
		CurrentTitle:      "Senior Backend Engineer",
		WorkAuthorized:    true,
	}
	job := models.JobContext{
		Title:       "Staff Backend Engineer",
		Company:     "ExampleCo",
		Description: "We build high-throughput payment infrastructure in Go and PostgreSQL.",
	}

	questions := []models.CustomQuestion{
		{
			Question: "Why do you want to join ExampleCo?",
			Selector: "#q1",
			Kind:     models.FieldTextarea,
		},
		{
			Question: "How many years of backend experience do you have?",
			Selector: "#q2",
			Kind:     models.FieldSelect,
			Options:  []string{"0-2 years", "3-5 years", "5+ years"},
		},
		{
			Question: "Are you legally authorized to work in the US?",
			Selector: "#q3",
			Kind:     models.FieldRadio,
			Options:  []string{"Yes", "No"},
		},
	}

	fmt.Println("Answering sample screening questions...")
	answers := answerer.AnswerQuestions(context.Background(), profile, job, questions)

	for _, q := range questions {
		fmt.Printf("\nQ: %s\nA: %s\n", q.Question, answers[q.Selector])
	}
}
