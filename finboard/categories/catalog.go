package categories

// the categories every new account starts with, in insertion order
var defaultCatalog = []Category{
	{Nome: "Salário", Tipo: KindIncome, Cor: "#10B981", Icone: "DollarSign"},
	{Nome: "Freelance", Tipo: KindIncome, Cor: "#3B82F6", Icone: "Briefcase"},
	{Nome: "Investimentos", Tipo: KindIncome, Cor: "#8B5CF6", Icone: "TrendingUp"},
	{Nome: "Vendas", Tipo: KindIncome, Cor: "#F59E0B", Icone: "ShoppingBag"},
	{Nome: "Aluguel Recebido", Tipo: KindIncome, Cor: "#059669", Icone: "Home"},

	{Nome: "Alimentação", Tipo: KindExpense, Cor: "#EF4444", Icone: "Utensils"},
	{Nome: "Transporte", Tipo: KindExpense, Cor: "#F97316", Icone: "Car"},
	{Nome: "Moradia", Tipo: KindExpense, Cor: "#6366F1", Icone: "Home"},
	{Nome: "Saúde", Tipo: KindExpense, Cor: "#EC4899", Icone: "Heart"},
	{Nome: "Educação", Tipo: KindExpense, Cor: "#14B8A6", Icone: "BookOpen"},
	{Nome: "Lazer", Tipo: KindExpense, Cor: "#8B5CF6", Icone: "Gamepad2"},
	{Nome: "Roupas", Tipo: KindExpense, Cor: "#F59E0B", Icone: "Shirt"},
	{Nome: "Tecnologia", Tipo: KindExpense, Cor: "#6B7280", Icone: "Smartphone"},
	{Nome: "Serviços", Tipo: KindExpense, Cor: "#84CC16", Icone: "Settings"},
	{Nome: "Serviços de Streaming", Tipo: KindExpense, Cor: "#9333EA", Icone: "Film"},
}

// returns a fresh copy of the default catalog bound to userID
func DefaultCatalog(userID string) []Category {
	out := make([]Category, len(defaultCatalog))

	for i, c := range defaultCatalog {
		c.UserID = userID
		out[i] = c
	}

	return out
}
