package cateringserver

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	adminsapp "github.com/Apurer/catering-api/internal/domains/admins/application"
	adminsdomain "github.com/Apurer/catering-api/internal/domains/admins/domain"
	adminsports "github.com/Apurer/catering-api/internal/domains/admins/ports"
	catalogapp "github.com/Apurer/catering-api/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/catering-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/catering-api/internal/domains/catalog/ports"
	customersapp "github.com/Apurer/catering-api/internal/domains/customers/application"
	customersdomain "github.com/Apurer/catering-api/internal/domains/customers/domain"
	customersports "github.com/Apurer/catering-api/internal/domains/customers/ports"
	menusapp "github.com/Apurer/catering-api/internal/domains/menus/application"
	menusdomain "github.com/Apurer/catering-api/internal/domains/menus/domain"
	menusports "github.com/Apurer/catering-api/internal/domains/menus/ports"
	messagesapp "github.com/Apurer/catering-api/internal/domains/messages/application"
	messagesdomain "github.com/Apurer/catering-api/internal/domains/messages/domain"
	messagesports "github.com/Apurer/catering-api/internal/domains/messages/ports"
	ordersapp "github.com/Apurer/catering-api/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/catering-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/catering-api/internal/domains/orders/ports"
	reviewsapp "github.com/Apurer/catering-api/internal/domains/reviews/application"
	reviewsdomain "github.com/Apurer/catering-api/internal/domains/reviews/domain"
	reviewsports "github.com/Apurer/catering-api/internal/domains/reviews/ports"
	settingsapp "github.com/Apurer/catering-api/internal/domains/settings/application"
	settingsdomain "github.com/Apurer/catering-api/internal/domains/settings/domain"
	apierrors "github.com/Apurer/catering-api/internal/shared/errors"
)

// invalidInputs are the per-context sentinels wrapping rejected input.
var invalidInputs = []error{
	ordersapp.ErrInvalidInput,
	catalogapp.ErrInvalidInput,
	customersapp.ErrInvalidInput,
	reviewsapp.ErrInvalidInput,
	menusapp.ErrInvalidInput,
	messagesapp.ErrInvalidInput,
	settingsapp.ErrInvalidInput,
	adminsapp.ErrInvalidInput,
}

// validationMessages picks the French message for rejected input. The first
// matching cause wins.
var validationMessages = []struct {
	cause   error
	message string
}{
	{ordersdomain.ErrNoValidItems, "Aucun article valide dans la commande"},
	{ordersdomain.ErrInvalidQuantity, "Quantité invalide"},
	{ordersdomain.ErrCustomerRequired, "Client requis"},
	{ordersports.ErrCustomerNotFound, "Client non trouvé"},
	{ordersports.ErrInvalidContact, "Coordonnées du client invalides"},
	{ordersdomain.ErrInvalidStatus, "Statut invalide"},
	{catalogdomain.ErrDishNameRequired, "Nom et catégorie requis"},
	{catalogdomain.ErrDishCategoryRequired, "Nom et catégorie requis"},
	{catalogdomain.ErrNegativePrice, "Le prix ne peut pas être négatif"},
	{catalogdomain.ErrInvalidRating, "La note doit être comprise entre 1 et 5"},
	{catalogdomain.ErrCategoryNameRequired, "Nom de catégorie requis"},
	{catalogdomain.ErrInvalidSlug, "Slug de catégorie invalide"},
	{catalogports.ErrCategoryNotFound, "Catégorie non trouvée"},
	{customersdomain.ErrEmailRequired, "Email requis"},
	{customersdomain.ErrInvalidEmail, "Email invalide"},
	{reviewsdomain.ErrOrderRequired, "Commande requise"},
	{reviewsdomain.ErrRatingRequired, "La note doit être comprise entre 1 et 5"},
	{reviewsdomain.ErrInvalidRating, "La note doit être comprise entre 1 et 5"},
	{menusdomain.ErrNameRequired, "Nom du menu requis"},
	{menusdomain.ErrItemsRequired, "Le menu doit contenir au moins un plat"},
	{menusdomain.ErrDishRequired, "Plat requis"},
	{menusdomain.ErrInvalidQuantity, "Quantité invalide"},
	{messagesdomain.ErrNameRequired, "Nom, email et message requis"},
	{messagesdomain.ErrEmailRequired, "Nom, email et message requis"},
	{messagesdomain.ErrMessageRequired, "Nom, email et message requis"},
	{messagesdomain.ErrInvalidEmail, "Email invalide"},
	{settingsdomain.ErrNegativeAmount, "Les frais de livraison ne peuvent pas être négatifs"},
	{adminsdomain.ErrEmailRequired, "Email requis"},
	{adminsdomain.ErrInvalidEmail, "Email invalide"},
	{adminsdomain.ErrWeakPassword, "Le mot de passe doit contenir au moins 6 caractères"},
	{adminsdomain.ErrPasswordLength, "Mot de passe trop long"},
}

func validationMapper(err error) (apierrors.ProblemDetail, bool) {
	invalid := false
	for _, sentinel := range invalidInputs {
		if errors.Is(err, sentinel) {
			invalid = true
			break
		}
	}
	if !invalid {
		return apierrors.ProblemDetail{}, false
	}
	for _, candidate := range validationMessages {
		if errors.Is(err, candidate.cause) {
			return apierrors.NewValidationProblem(candidate.message, nil).WithDetail(err.Error()), true
		}
	}
	return apierrors.ErrValidation.WithDetail(err.Error()), true
}

func errorMappers() []apierrors.ErrorMapper {
	conflict := func(message string) apierrors.ProblemDetail { return apierrors.ErrConflict.WithMessage(message) }
	notFound := func(message string) apierrors.ProblemDetail { return apierrors.ErrNotFound.WithMessage(message) }
	badRequest := func(message string) apierrors.ProblemDetail { return apierrors.ErrBadRequest.WithMessage(message) }
	unauthorized := func(message string) apierrors.ProblemDetail { return apierrors.ErrUnauthorized.WithMessage(message) }
	return []apierrors.ErrorMapper{
		// Wrapped input errors first: a missing customer on an order is a 400.
		validationMapper,

		apierrors.Map(ordersdomain.ErrInvalidTransition, conflict("Transition de statut non autorisée")),
		apierrors.Map(ordersports.ErrStatusConflict, conflict("Le statut de la commande a changé, veuillez réessayer")),
		apierrors.Map(ordersports.ErrIdempotencyConflict, conflict("Clé d'idempotence déjà utilisée pour une autre commande")),
		apierrors.Map(catalogports.ErrDuplicateSlug, conflict("Une catégorie avec ce slug existe déjà")),
		apierrors.Map(catalogports.ErrCategoryInUse, conflict("Catégorie utilisée par des plats")),

		apierrors.Map(customersports.ErrDuplicateEmail, badRequest("Email déjà utilisé")),
		apierrors.Map(adminsports.ErrEmailTaken, badRequest("Email déjà utilisé")),

		apierrors.Map(adminsports.ErrInvalidCredentials, unauthorized("Email ou mot de passe incorrect")),
		apierrors.Map(adminsports.ErrUnauthenticated, unauthorized("Authentification requise")),

		apierrors.Map(ordersports.ErrNotFound, notFound("Commande non trouvée")),
		apierrors.Map(reviewsports.ErrOrderNotFound, notFound("Commande non trouvée")),
		apierrors.Map(catalogports.ErrDishNotFound, notFound("Plat non trouvé")),
		apierrors.Map(catalogports.ErrCategoryNotFound, notFound("Catégorie non trouvée")),
		apierrors.Map(customersports.ErrNotFound, notFound("Client non trouvé")),
		apierrors.Map(reviewsports.ErrNotFound, notFound("Avis non trouvé")),
		apierrors.Map(menusports.ErrNotFound, notFound("Menu non trouvé")),
		apierrors.Map(messagesports.ErrNotFound, notFound("Message non trouvé")),
		apierrors.Map(adminsports.ErrNotFound, notFound("Administrateur non trouvé")),
	}
}

var responder = apierrors.NewChainedResponder("", slog.Default(), errorMappers()...)

// configureResponder rebuilds the shared responder once the process logger
// and problem base URI are known.
func configureResponder(baseURI string, logger *slog.Logger) {
	responder = apierrors.NewChainedResponder(baseURI, logger, errorMappers()...)
}

// respondProblem writes problem through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

// respondError maps service errors to problem details; unknown errors become
// a logged, generic 500.
func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func respondBadRequest(c *gin.Context, message string, err error) {
	problem := apierrors.ErrBadRequest.WithMessage(message)
	if err != nil {
		problem = problem.WithDetail(err.Error())
	}
	respondProblem(c, problem)
}
