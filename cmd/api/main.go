package main

import (
	"log"

	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/cli"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cli.Execute()
}
