package entity

import "encoding/json"

type CreatePostInput struct {
	Title       string          `json:"title" validate:"required,min=3,max=200"`
	Description string          `json:"description" validate:"max=1000"`
	Content     json.RawMessage `json:"content"`
	MainImage   string          `json:"mainImage" validate:"omitempty,url"`
	Tags        []string        `json:"tags" validate:"max=20,dive,min=1,max=50"`
	CategoryID  *string         `json:"categoryId"`
	IsPublished bool            `json:"isPublished"`
	IsPriority  bool            `json:"isPriority"`
	IsPinned    bool            `json:"isPinned"`
}

type UpdatePostInput struct {
	Title       *string         `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string         `json:"description" validate:"omitempty,max=1000"`
	Content     json.RawMessage `json:"content"`
	MainImage   *string         `json:"mainImage" validate:"omitempty,url"`
	Tags        []string        `json:"tags" validate:"omitempty,max=20,dive,min=1,max=50"`
	CategoryID  *string         `json:"categoryId"`
	IsPublished *bool           `json:"isPublished"`
	IsPriority  *bool           `json:"isPriority"`
	IsPinned    *bool           `json:"isPinned"`
}

func (in UpdatePostInput) Empty() bool {
	return in.Title == nil && in.Description == nil && in.Content == nil && in.MainImage == nil &&
		in.Tags == nil && in.CategoryID == nil && in.IsPublished == nil && in.IsPriority == nil && in.IsPinned == nil
}

type SignUpInput struct {
	Name        string `json:"name" validate:"required,min=1,max=120"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"min=8,max=128"`
	AvatarURL   string `json:"avatarUrl" validate:"omitempty,url"`
	RememberMe  bool   `json:"rememberMe"`
	CallbackURL string `json:"callbackURL"`
}

type SignInInput struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	CallbackURL string `json:"callbackURL"`
	RememberMe  bool   `json:"rememberMe"`
}

type CreateAuthorInput struct {
	Name        string            `json:"name" validate:"required,min=1,max=120"`
	Email       string            `json:"email" validate:"omitempty,email"`
	Password    string            `json:"password" validate:"omitempty,min=8,max=128"`
	Image       string            `json:"avatarUrl" validate:"omitempty,url"`
	Bio         string            `json:"bio" validate:"max=2000"`
	Designation string            `json:"designation" validate:"max=120"`
	Role        Role              `json:"role" validate:"omitempty,oneof=USER ADMIN MODERATOR"`
	SocialLinks map[string]string `json:"socialLinks"`
}

type UpdateProfileInput struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=120"`
	AvatarURL *string `json:"avatarUrl" validate:"omitempty,url"`
}

type CreateCategoryInput struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// AuthResult is returned by the email sign-in and sign-up flows.
type AuthResult struct {
	Redirect bool   `json:"redirect"`
	Token    string `json:"token"`
	URL      string `json:"url"`
	User     *User  `json:"user"`
	// Session is used to set the cookie; it is not part of the response.
	Session *Session `json:"-"`
}

type SessionView struct {
	Session *Session `json:"session"`
	User    *User    `json:"user"`
}

type Profile struct {
	User     *User     `json:"user"`
	Accounts []Account `json:"accounts"`
}

type SignOutResult struct {
	Success bool `json:"success"`
}

type OAuthRedirect struct {
	URL      string `json:"url"`
	Redirect bool   `json:"redirect"`
}
