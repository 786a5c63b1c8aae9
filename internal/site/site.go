// Package site holds the static parts of the public site: topic pages
// (which category they list and which assistant they embed), the home
// page category cards, and the testimonials.
package site

// Card is a feature card on a topic or home page.
type Card struct {
	Title       string
	Description string
	Bullets     []string
	Link        string
}

// Topic is a public landing page bound to a category and, optionally, an
// AI function.
type Topic struct {
	Path     string
	Title    string
	Subtitle string
	// Category is the category slug listed on the page; "" lists all.
	Category string
	// Function is the assistant embedded on the page, if any.
	Function string
	// Searchable pages show the search box and type tabs.
	Searchable bool
	Heading    string
	Cards      []Card
}

var engineeringCards = []Card{
	{Title: "AutoCAD Civil 3D", Description: "Comandos automatizados para modelagem de terrenos, redes e infraestrutura"},
	{Title: "Análise Estrutural", Description: "Scripts para cálculos de vigas, pilares e fundações"},
	{Title: "Geotecnia", Description: "Comandos para análise de solo e estabilidade de taludes"},
	{Title: "Hidráulica", Description: "Cálculos automáticos de redes de água e esgoto"},
	{Title: "Pavimentação", Description: "Dimensionamento automático de pavimentos flexíveis e rígidos"},
	{Title: "Orçamentação", Description: "Geração automática de planilhas e composições de custos"},
}

var topics = []Topic{
	{
		Path:     "/engineering",
		Title:    "Engenharia",
		Subtitle: "Ferramentas, comandos e scripts para projetos de engenharia",
		Category: "engenharia",
		Function: "engineering-ai",
		Heading:  "Áreas atendidas",
		Cards:    engineeringCards,
	},
	{
		Path:     "/autocad-civil-3d",
		Title:    "AutoCAD Civil 3D",
		Subtitle: "Domine as ferramentas mais avançadas de engenharia civil e infraestrutura com nossos tutoriais especializados",
		Category: "engenharia",
		Function: "engineering-ai",
		Heading:  "O que você vai aprender",
		Cards: []Card{
			{Title: "Modelagem 3D Avançada", Description: "Criação de superfícies, corredores e projetos complexos de infraestrutura",
				Bullets: []string{"Superfícies topográficas", "Design de estradas", "Redes de drenagem", "Análise de volumes"}},
			{Title: "Documentação Técnica", Description: "Geração automática de plantas, perfis e seções transversais",
				Bullets: []string{"Plantas baixas automáticas", "Perfis longitudinais", "Seções transversais", "Tabelas de quantidade"}},
			{Title: "Scripts e Automação", Description: "Automatize tarefas repetitivas com scripts personalizados",
				Bullets: []string{"LISP customizados", "Macros avançadas", "Templates profissionais"}},
		},
	},
	{
		Path:     "/crypto",
		Title:    "Criptomoedas",
		Subtitle: "Bitcoin, blockchain e investimentos",
		Category: "crypto",
		Function: "crypto-ai",
	},
	{
		Path:     "/criptomoedas",
		Title:    "Mundo das Criptomoedas",
		Subtitle: "Domine o futuro das finanças digitais com análises, estratégias e insights sobre criptomoedas",
		Category: "crypto",
		Function: "crypto-ai",
		Heading:  "Aprenda sobre o mercado cripto",
		Cards: []Card{
			{Title: "Análise Fundamentalista", Description: "Entenda os fundamentos das principais criptomoedas",
				Bullets: []string{"Bitcoin e Ethereum", "Altcoins promissoras", "Tecnologia Blockchain", "Casos de uso reais"}},
			{Title: "Análise Técnica", Description: "Leia gráficos e identifique tendências de mercado"},
			{Title: "Segurança e Gestão", Description: "Proteja seus ativos e gerencie riscos"},
		},
	},
	{
		Path:     "/music",
		Title:    "Música",
		Subtitle: "Instrumentos, teoria musical e mais",
		Category: "music",
	},
	{
		Path:     "/motivational",
		Title:    "Motivacional",
		Subtitle: "Inspiração e desenvolvimento pessoal",
		Category: "motivational",
		Function: "motivational-message",
	},
	{
		Path:     "/motivacional",
		Title:    "Conteúdo Motivacional",
		Subtitle: "Transforme sua mentalidade e alcance seus objetivos com nosso conteúdo inspirador",
		Category: "motivational",
		Function: "motivational-message",
		Heading:  "Transforme sua vida",
		Cards: []Card{
			{Title: "Foco e Disciplina"},
			{Title: "Mentalidade Vencedora"},
			{Title: "Supere seus Limites"},
		},
	},
	{
		Path:       "/noticias",
		Title:      "Notícias & Conteúdo",
		Subtitle:   "Fique por dentro das últimas novidades em engenharia, tecnologia, criptomoedas e muito mais.",
		Searchable: true,
	},
}

// Topics returns every topic page.
func Topics() []Topic {
	return topics
}

// TopicByPath returns the topic served at path.
func TopicByPath(path string) (Topic, bool) {
	for _, t := range topics {
		if t.Path == path {
			return t, true
		}
	}
	return Topic{}, false
}

// CategoryTitle returns the display title of a seeded category slug, or
// "Conteúdo" for anything else.
func CategoryTitle(slug string) string {
	switch slug {
	case "engenharia":
		return "Engenharia"
	case "crypto":
		return "Criptomoedas"
	case "music":
		return "Música"
	case "motivational":
		return "Motivacional"
	}
	return "Conteúdo"
}

// HomeCategories are the "Explore Nossas Categorias" cards.
func HomeCategories() []Card {
	return []Card{
		{Title: "Engenharia", Description: "AutoCAD Civil 3D, projetos e ferramentas", Link: "/?category=engenharia"},
		{Title: "Criptomoedas", Description: "Bitcoin, blockchain e investimentos", Link: "/?category=crypto"},
		{Title: "Música", Description: "Instrumentos, teoria musical e mais", Link: "/?category=music"},
		{Title: "Motivacional", Description: "Inspiração e desenvolvimento pessoal", Link: "/?category=motivational"},
	}
}

// Testimonial is a quote shown on the home page.
type Testimonial struct {
	Name     string
	Role     string
	Content  string
	Initials string
}

// Testimonials returns the home page quotes.
func Testimonials() []Testimonial {
	return []Testimonial{
		{"Carlos Silva", "Arquiteto", "Excelente plataforma para aprender sobre tecnologia e inovação. Muito útil!", "CS"},
		{"Maria Santos", "Engenheira Civil", "Os recursos de IA são incríveis! Me ajudam muito no meu trabalho diário.", "MS"},
		{"João Pedro", "Desenvolvedor", "Conteúdo de qualidade e sempre atualizado. Recomendo para todos!", "JP"},
		{"Ana Costa", "Designer", "Interface intuitiva e funcionalidades que realmente fazem a diferença.", "AC"},
	}
}
