package main

import (
	"github.com/PhucHuuDang/GraphQL/pkg/config"
	blogApp "github.com/PhucHuuDang/GraphQL/services/blog/internal/app"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// @title           Blog API
// @version         1.0
// @description     GraphQL blogging backend: posts, authors, categories, sessions and GitHub sign-in

// @host      localhost:3001
// @BasePath  /

// @securityDefinitions.apikey SessionCookie
// @in header
// @name Authorization
// @description Session token issued by signInEmail or signUpEmail.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	application, err := blogApp.NewApp(cfg)
	if err != nil {
		panic(err)
	}

	if err := application.Run(); err != nil {
		panic(err)
	}

	application.Wait()

	if err := application.Shutdown(); err != nil {
		panic(err)
	}
}
