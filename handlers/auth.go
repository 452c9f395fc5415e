package handlers

import (
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "net/http"
    "strconv"
    "time"

    "github.com/golang-jwt/jwt/v4"
    "golang.org/x/crypto/bcrypt"

    "github.com/circlearena/circlearena-backend/middleware"
    "github.com/circlearena/circlearena-backend/models"
    "github.com/circlearena/circlearena-backend/repository"
    "github.com/circlearena/circlearena-backend/responses"
    "github.com/circlearena/circlearena-backend/utils"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
    var user models.User
    err := json.NewDecoder(r.Body).Decode(&user)
    if err != nil {
        utils.HandleError(w, responses.BadRequestError{Msg: "Invalid request."})
        return
    }

    if len(user.Username) < 3 || len(user.Username) > 50 {
        utils.HandleError(w, responses.BadRequestError{Msg: "Username must be between 3 and 50 characters."})
        return
    }

    if len(user.Password) < 3 || len(user.Password) > 50 {
        utils.HandleError(w, responses.BadRequestError{Msg: "Password must be between 3 and 50 characters."})
        return
    }

    hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
    if err != nil {
        utils.HandleError(w, responses.InternalServerError{Msg: "Failed to hash password."})
        return
    }

    _, err = h.users.Create(user.Username, string(hashedPassword))
    if err != nil {
        if errors.Is(err, repository.ErrUsernameTaken) {
            utils.HandleError(w, responses.BadRequestError{Msg: "Username already exists."})
            return
        }
        log.Println(err)
        utils.HandleError(w, responses.InternalServerError{Msg: "Failed to create user."})
        return
    }

    utils.HandleSuccess(w, models.SuccessResponse(map[string]string{"message": "User created successfully."}))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
    var loginInfo models.User
    err := json.NewDecoder(r.Body).Decode(&loginInfo)
    if err != nil {
        utils.HandleError(w, responses.BadRequestError{Msg: "Invalid request."})
        return
    }

    user, found, err := h.users.FindByUsername(loginInfo.Username)
    if err != nil {
        log.Println(err)
        utils.HandleError(w, responses.InternalServerError{Msg: "An error occurred while processing your request."})
        return
    }
    if !found {
        utils.HandleError(w, responses.BadRequestError{Msg: "Invalid username or password."})
        return
    }

    err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(loginInfo.Password))
    if err != nil {
        utils.HandleError(w, responses.BadRequestError{Msg: "Invalid username or password."})
        return
    }

    tokenString, err := h.newAccessToken(user)
    if err != nil {
        utils.HandleError(w, responses.InternalServerError{Msg: "Failed to generate token."})
        return
    }

    // Keep the token in a cookie as well so the game pages can reconnect
    // without re-posting credentials.
    http.SetCookie(w, &http.Cookie{
        Name:     "access_token",
        Value:    tokenString,
        Path:     "/",
        Expires:  time.Now().Add(72 * time.Hour),
        HttpOnly: true,
        SameSite: http.SameSiteStrictMode,
    })

    utils.HandleSuccess(w, models.SuccessResponse(map[string]string{"access_token": tokenString}))
}

func (h *Handler) newAccessToken(user models.User) (string, error) {
    claims := models.CustomClaims{
        RegisteredClaims: jwt.RegisteredClaims{
            ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
        },
        ID:       strconv.Itoa(user.ID),
        Username: user.Username,
    }

    token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    return token.SignedString([]byte(h.cfg.JWTSecret))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
    // Expire the cookie to force the client to delete it. Access tokens are
    // not tracked server-side, they simply run out.
    http.SetCookie(w, &http.Cookie{
        Name:     "access_token",
        Value:    "",
        Path:     "/",
        Expires:  time.Now().AddDate(0, 0, -1),
        MaxAge:   -1,
        HttpOnly: true,
    })

    utils.HandleSuccess(w, models.SuccessResponse(map[string]string{"message": "Logged out successfully."}))
}

// Session reports who the presented token belongs to.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
    authInfo, ok := r.Context().Value(middleware.AuthInfoKey).(*models.CustomClaims)
    if !ok {
        utils.HandleError(w, responses.InternalServerError{Msg: "Error processing request."})
        return
    }

    utils.HandleSuccess(w, models.SuccessResponse(map[string]string{"username": authInfo.Username}))
}

// ValidateToken parses and verifies an access token presented on the
// websocket path.
func (h *Handler) ValidateToken(tokenStr string) (*models.CustomClaims, error) {
    claims := &models.CustomClaims{}
    token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
        if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
        }
        return []byte(h.cfg.JWTSecret), nil
    })
    if err != nil {
        return nil, err
    }
    if !token.Valid {
        return nil, fmt.Errorf("invalid token")
    }
    return claims, nil
}
