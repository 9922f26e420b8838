package validate

// Rules groups the schemas a route applies to its body, query string and URL parameters.
type Rules struct {
	Body   Schema
	Query  Schema
	Params Schema
}

var (
	LoginSchema          = Schema{"email": Email, "password": Password}
	ForgotPasswordSchema = Schema{"email": Email}
	ResetPasswordSchema  = Schema{"password": Password}
	UserStatusSchema     = Schema{"status": Alphabetic}
	IDParamSchema        = Schema{"id": Numeric}
	PageQuerySchema      = Schema{"page": Numeric, "limit": Numeric}
	TherapistBodySchema  = Schema{"email": Email, "phone": Phone, "experience": Numeric}
	StatusBodySchema     = Schema{"status": Alphabetic}
	AvailabilitySchema   = Schema{"availability": Alphabetic}
)

var (
	LoginRules           = Rules{Body: LoginSchema}
	ForgotPasswordRules  = Rules{Body: ForgotPasswordSchema}
	ResetPasswordRules   = Rules{Body: ResetPasswordSchema}
	ListRules            = Rules{Query: PageQuerySchema}
	ByIDRules            = Rules{Params: IDParamSchema}
	UserStatusRules      = Rules{Body: UserStatusSchema, Params: IDParamSchema}
	StatusRules          = Rules{Body: StatusBodySchema, Params: IDParamSchema}
	CreateTherapistRules = Rules{Body: TherapistBodySchema}
	UpdateTherapistRules = Rules{Body: TherapistBodySchema, Params: IDParamSchema}
)
