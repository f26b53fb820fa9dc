package model

// Schema types the pipeline knows how to build. Anything else falls back to
// BlogPosting backbone-only.
const (
	TypeBlogPosting = "BlogPosting"
	TypeArticle     = "Article"
	TypeNewsArticle = "NewsArticle"
	TypeFAQPage     = "FAQPage"
	TypeHowTo       = "HowTo"
	TypeItemList    = "ItemList"
	TypeReview      = "Review"
	TypeVideoObject = "VideoObject"
	TypeTrip        = "Trip"
	TypePlace       = "Place"
	TypeAirline     = "Airline"
	TypeProduct     = "Product"
)

var supportedTypes = map[string]struct{}{
	TypeBlogPosting: {}, TypeArticle: {}, TypeNewsArticle: {},
	TypeFAQPage: {}, TypeHowTo: {}, TypeItemList: {}, TypeReview: {},
	TypeVideoObject: {}, TypeTrip: {}, TypePlace: {}, TypeAirline: {},
	TypeProduct: {},
}

func IsSupportedType(t string) bool {
	_, ok := supportedTypes[t]
	return ok
}

// SupportedTypes returns the canonical type list (stable order, for prompts
// and admin validation).
func SupportedTypes() []string {
	return []string{
		TypeBlogPosting, TypeArticle, TypeNewsArticle, TypeFAQPage,
		TypeHowTo, TypeItemList, TypeReview, TypeVideoObject,
		TypeTrip, TypePlace, TypeAirline, TypeProduct,
	}
}

// Reviewed-item sub-types for Review classifications.
const (
	ReviewedHotel            = "Hotel"
	ReviewedRestaurant       = "Restaurant"
	ReviewedLocalBusiness    = "LocalBusiness"
	ReviewedAirline          = "Airline"
	ReviewedFlight           = "Flight"
	ReviewedSoftware         = "SoftwareApplication"
	ReviewedCreditCard       = "CreditCard"
	ReviewedFinancialProduct = "FinancialProduct"
	ReviewedPlace            = "Place"
	ReviewedProduct          = "Product"
)

// Classification is the classifier's verdict for one content record.
type Classification struct {
	Type          string     `json:"type"`
	Justification string     `json:"justification"`
	Summary       string     `json:"summary"`
	MissingInfo   StringList `json:"missing_info"`
	Details       Details    `json:"details"`
}

// Details is the per-type payload. Exactly one variant's fields are expected
// to be populated, keyed by Classification.Type (and ReviewedType for
// reviews); the builder reads only the fields its template needs, so stray
// fields from relaxed-mode output are harmless.
type Details struct {
	PlaceCore // top-level place-like fields (Place/Airline) and top-level rating

	PlaceName   string `json:"place_name"`
	AirlineName string `json:"airline_name"`
	IATA        string `json:"iata"`

	// Review
	ReviewedType string             `json:"reviewed_type"`
	Flight       *FlightDetails     `json:"flight"`
	Hotel        *HotelDetails      `json:"hotel"`
	Lounge       *LoungeDetails     `json:"lounge"`
	Restaurant   *RestaurantDetails `json:"restaurant"`
	Software     *SoftwareDetails   `json:"software"`
	Card         *CardDetails       `json:"card"`
	Product      *ProductDetails    `json:"product"`

	// Trip
	TripName  string     `json:"trip_name"`
	Itinerary []TripStop `json:"itinerary"`
	Offers    *Offer     `json:"offers"`

	// FAQPage
	FAQ []FAQEntry `json:"faq"`

	// HowTo
	HowToSteps   StringList `json:"howto_steps"`
	TotalTime    string     `json:"totalTime"`
	TotalTimeAlt string     `json:"total_time"`

	// ItemList
	ItemList []ListEntry `json:"itemlist"`

	// VideoObject
	Video *VideoDetails `json:"video"`
}

// PlaceCore holds the place-like property set shared by Place, Hotel,
// Restaurant and lounge variants. Canonical and alias keys are both declared;
// the accessor methods resolve precedence so callers never touch aliases.
type PlaceCore struct {
	Name                string     `json:"name"`
	Address             *Address   `json:"address"`
	Location            *Address   `json:"location"`
	Telephone           string     `json:"telephone"`
	Phone               string     `json:"phone"`
	URL                 string     `json:"url"`
	Image               string     `json:"image"`
	SameAs              StringList `json:"sameAs"`
	SameAsAlt           StringList `json:"same_as"`
	PriceRange          string     `json:"priceRange"`
	PriceRangeAlt       string     `json:"price_range"`
	OpeningHours        StringList `json:"opening_hours"`
	OpeningHoursAlt     StringList `json:"openingHours"`
	OpeningHoursSpec    []HoursRow `json:"opening_hours_spec"`
	OpeningHoursSpecAlt []HoursRow `json:"openingHoursSpecification"`
	Geo                 *Geo       `json:"geo"`
	Rating              *Number    `json:"rating"`
}

func (p *PlaceCore) Addr() *Address {
	if !p.Address.Empty() {
		return p.Address
	}
	if !p.Location.Empty() {
		return p.Location
	}
	return nil
}

func (p *PlaceCore) Tel() string { return firstNonEmpty(p.Telephone, p.Phone) }

func (p *PlaceCore) Price() string { return firstNonEmpty(p.PriceRange, p.PriceRangeAlt) }

func (p *PlaceCore) Links() []string {
	if len(p.SameAs) > 0 {
		return p.SameAs.Deduped()
	}
	return p.SameAsAlt.Deduped()
}

// HoursSpec returns structured opening-hours rows; these win outright over
// any free-text hours when present.
func (p *PlaceCore) HoursSpec() []HoursRow {
	if len(p.OpeningHoursSpec) > 0 {
		return p.OpeningHoursSpec
	}
	return p.OpeningHoursSpecAlt
}

func (p *PlaceCore) HoursText() []string {
	if len(p.OpeningHours) > 0 {
		return p.OpeningHours
	}
	return p.OpeningHoursAlt
}

type FlightDetails struct {
	AirlineName  string `json:"airline_name"`
	IATA         string `json:"iata"`
	FlightNumber string `json:"flight_number"`
	URL          string `json:"url"`
}

type HotelDetails struct {
	PlaceCore
	StarRating *Number `json:"star_rating"`
}

type LoungeDetails struct {
	PlaceCore
	AirportName string     `json:"airport_name"`
	AirportIATA string     `json:"airport_iata"`
	Terminal    string     `json:"terminal"`
	Amenities   StringList `json:"amenities"`
}

type RestaurantDetails struct {
	PlaceCore
	ServesCuisine StringList `json:"serves_cuisine"`
	Cuisine       StringList `json:"cuisine"`
}

func (r *RestaurantDetails) Cuisines() []string {
	if len(r.ServesCuisine) > 0 {
		return r.ServesCuisine.Deduped()
	}
	return r.Cuisine.Deduped()
}

type SoftwareDetails struct {
	Name            string  `json:"name"`
	OperatingSystem string  `json:"operating_system"`
	Category        string  `json:"category"`
	Price           string  `json:"price"`
	Currency        string  `json:"currency"`
	Rating          *Number `json:"rating"`
	URL             string  `json:"url"`
}

type CardDetails struct {
	Name      string  `json:"name"`
	Issuer    string  `json:"issuer"`
	AnnualFee string  `json:"annual_fee"`
	Rating    *Number `json:"rating"`
	URL       string  `json:"url"`
}

type ProductDetails struct {
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Description string  `json:"description"`
	Price       string  `json:"price"`
	Currency    string  `json:"currency"`
	Rating      *Number `json:"rating"`
	URL         string  `json:"url"`
	Image       string  `json:"image"`
}

type TripStop struct {
	Name      string   `json:"name"`
	Title     string   `json:"title"`
	Location  string   `json:"location"`
	URL       string   `json:"url"`
	Position  *Number  `json:"position"`
	Address   *Address `json:"address"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
}

func (s *TripStop) DisplayName() string { return firstNonEmpty(s.Name, s.Title) }

type Offer struct {
	Price         string `json:"price"`
	PriceCurrency string `json:"priceCurrency"`
	URL           string `json:"url"`
}

type FAQEntry struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
}

type ListEntry struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type VideoDetails struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	UploadDate  string `json:"upload_date"`
	Duration    string `json:"duration"`
	EmbedURL    string `json:"embed_url"`
	ContentURL  string `json:"content_url"`
}

// Duration hunts the HowTo total time across the alias keys.
func (d *Details) HowToTotalTime() string { return firstNonEmpty(d.TotalTime, d.TotalTimeAlt) }

// HuntRating finds the review rating by checking the top-level value first,
// then each nested variant in a fixed precedence order.
func (d *Details) HuntRating() *Number {
	if d.Rating != nil {
		return d.Rating
	}
	if d.Lounge != nil && d.Lounge.Rating != nil {
		return d.Lounge.Rating
	}
	if d.Hotel != nil && d.Hotel.Rating != nil {
		return d.Hotel.Rating
	}
	if d.Restaurant != nil && d.Restaurant.Rating != nil {
		return d.Restaurant.Rating
	}
	if d.Software != nil && d.Software.Rating != nil {
		return d.Software.Rating
	}
	if d.Card != nil && d.Card.Rating != nil {
		return d.Card.Rating
	}
	return nil
}
