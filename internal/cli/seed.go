package cli

import (
	"context"
	"log"

	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/config"
	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/domain"
	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/repository"
	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/service"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the catalog with sample products and an admin account",
	RunE:  runSeed,
}

var adminEmail, adminPassword string

func init() {
	seedCmd.Flags().StringVar(&adminEmail, "admin-email", "admin@dbu.edu.et", "admin account email")
	seedCmd.Flags().StringVar(&adminPassword, "admin-password", "", "admin account password (required)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		return err
	}
	defer mongoDB.Client().Disconnect(ctx)

	if err := repository.EnsureIndexes(ctx, mongoDB); err != nil {
		return err
	}

	if adminPassword != "" {
		users := repository.NewUserRepository(mongoDB)
		auth := service.NewAuthService(users, cfg.JWTSecret)
		admin, _, err := auth.Register(ctx, adminEmail, "Store Admin", adminPassword)
		if err == nil {
			// Register always creates customers; promote directly.
			_, errUpdate := mongoDB.Collection("users").UpdateByID(ctx, admin.ID,
				map[string]interface{}{"$set": map[string]interface{}{"role": domain.RoleAdmin}})
			if errUpdate != nil {
				return errUpdate
			}
			log.Printf("admin account created: %s", adminEmail)
		} else {
			log.Printf("admin account not created: %v", err)
		}
	}

	products := repository.NewProductRepository(mongoDB)
	for _, p := range sampleProducts() {
		product := p
		if err := products.Create(ctx, &product); err != nil {
			return err
		}
		log.Printf("seeded product %q", product.Name)
	}

	return nil
}

func sampleProducts() []domain.Product {
	return []domain.Product{
		{
			Name:        "DBU Crest T-Shirt",
			Description: "Soft cotton tee with the university crest.",
			Price:       350,
			Category:    domain.CategoryTShirts,
			Gender:      domain.GenderUnisex,
			Sizes:       []string{"S", "M", "L", "XL"},
			Stock:       120,
			Featured:    true,
		},
		{
			Name:        "Campus Hoodie",
			Description: "Fleece-lined hoodie for cold mornings on the hill.",
			Price:       950,
			Category:    domain.CategoryHoodies,
			Gender:      domain.GenderUnisex,
			Sizes:       []string{"M", "L", "XL", "XXL"},
			Stock:       60,
			Trending:    true,
		},
		{
			Name:        "Graduation Dress",
			Description: "Elegant dress for graduation season.",
			Price:       1800,
			Category:    domain.CategoryDresses,
			Gender:      domain.GenderWomen,
			Sizes:       []string{"XS", "S", "M", "L"},
			Stock:       25,
		},
		{
			Name:        "Lecture Hall Sneakers",
			Description: "Lightweight everyday sneakers.",
			Price:       1400,
			Category:    domain.CategoryShoes,
			Gender:      domain.GenderMen,
			Sizes:       []string{"M", "L", "XL"},
			Stock:       40,
		},
	}
}
